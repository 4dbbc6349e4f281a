package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Provider string `json:"provider"`
	Fallback string `json:"fallback"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB       Pinger
	Provider string
	Fallback string
	Timeout  time.Duration
}

// NewService constructs a new health service. A nil db reports in-memory
// storage.
func NewService(db Pinger, provider, fallback string) *Service {
	return &Service{DB: db, Provider: provider, Fallback: fallback, Timeout: 2 * time.Second}
}

// Status pings the database, when present, and reports the configured
// providers.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", Provider: s.Provider, Fallback: s.Fallback}
	if s.DB == nil {
		return st
	}
	pingCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		st.OK = false
		st.Database = "unreachable"
		return st
	}
	st.Database = "ok"
	return st
}
