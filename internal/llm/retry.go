package llm

import (
	"context"
	"strings"
	"time"

	"resume-ats/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

// WithRetry wraps p so that one transient failure is retried once after a
// short delay. Unavailable outcomes and client errors are returned as is.
func WithRetry(p Provider) Provider {
	if p == nil {
		return nil
	}
	return retrying{base: p, delay: retryBaseDelay}
}

type retrying struct {
	base  Provider
	delay time.Duration
}

func (r retrying) Name() string  { return r.base.Name() }
func (r retrying) Model() string { return r.base.Model() }

func (r retrying) Invoke(ctx context.Context, prompt string) Outcome {
	out := r.base.Invoke(ctx, prompt)
	if !shouldRetry(out) {
		return out
	}
	telemetry.Warn("llm.retry", telemetry.WithProvider(map[string]any{
		"attempt": 1,
		"reason":  out.Reason,
		"status":  out.StatusCode,
	}, r.base.Name(), r.base.Model()))

	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return Failed("timeout: "+ctx.Err().Error(), 0)
	}
	return r.base.Invoke(ctx, prompt)
}

func shouldRetry(out Outcome) bool {
	if out.Kind != OutcomeFailed {
		return false
	}
	if out.StatusCode == 429 || out.StatusCode >= 500 {
		return true
	}
	if out.StatusCode != 0 {
		return false
	}
	msg := strings.ToLower(out.Reason)
	if strings.HasPrefix(msg, "timeout") {
		return false
	}
	for _, marker := range []string{"connection reset", "connection refused", "connection closed", "broken pipe", "tls handshake timeout", "eof"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
