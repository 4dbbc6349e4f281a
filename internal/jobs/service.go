package jobs

import (
	"context"

	"resume-ats/internal/shared/telemetry"
)

// Service parses job descriptions, consulting an optional cache.
type Service struct {
	Parser Parser
	Cache  Cache
}

// NewService constructs a Service. cache may be nil.
func NewService(cache Cache) *Service {
	return &Service{Parser: NewParser(), Cache: cache}
}

// Parse returns the structured job description. Cache failures are logged
// and never surface to the caller.
func (s *Service) Parse(ctx context.Context, text string) ParsedJobDescription {
	if s.Cache == nil || text == "" {
		return s.Parser.Parse(text)
	}
	key := CacheKey(text)
	if cached, ok, err := s.Cache.Get(ctx, key); err != nil {
		telemetry.Error("jobs.cache_get_failed", map[string]any{"error": err.Error()})
	} else if ok {
		return cached
	}

	parsed := s.Parser.Parse(text)
	if err := s.Cache.Put(ctx, key, parsed); err != nil {
		telemetry.Error("jobs.cache_put_failed", map[string]any{"error": err.Error()})
	}
	return parsed
}
