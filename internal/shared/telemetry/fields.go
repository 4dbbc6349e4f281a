package telemetry

// WithProvider adds provider and model keys to a log field map.
func WithProvider(fields map[string]any, provider, model string) map[string]any {
	if fields == nil {
		fields = make(map[string]any, 2)
	}
	if provider != "" {
		fields["ai_provider"] = provider
	}
	if model != "" {
		fields["ai_model"] = model
	}
	return fields
}
