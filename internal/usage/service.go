package usage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"resume-ats/internal/ledger"
)

const (
	DefaultMonthlyFreeCalls = 20
	DefaultWindow           = 30 * 24 * time.Hour
)

// Call describes one orchestration attempt to be written to the ledger.
type Call struct {
	UserID     string
	Endpoint   string
	TokensUsed *int
	Success    bool
	Model      string
	Notes      string
}

// Snapshot is a point-in-time view of a user's quota.
type Snapshot struct {
	Limit           int       `json:"limit"`
	Used            int       `json:"used"`
	Remaining       int       `json:"remaining"`
	WindowStart     time.Time `json:"windowStart"`
	WithinFreeLimit bool      `json:"withinFreeLimit"`
}

// Service admits premium AI calls against a sliding window of successful
// ledger entries. Nothing is cached: every check recounts the ledger.
type Service struct {
	Ledger           ledger.Repo
	MonthlyFreeCalls int
	Window           time.Duration
	Now              func() time.Time
}

// NewService constructs a Service. Non-positive window falls back to 30 days.
func NewService(repo ledger.Repo, monthlyFreeCalls int, window time.Duration) *Service {
	if monthlyFreeCalls < 0 {
		monthlyFreeCalls = 0
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Service{
		Ledger:           repo,
		MonthlyFreeCalls: monthlyFreeCalls,
		Window:           window,
		Now:              time.Now,
	}
}

// IsWithinFreeLimit reports whether the user has fewer successful calls in
// the trailing window than the free allowance.
func (s *Service) IsWithinFreeLimit(ctx context.Context, userID string) (bool, error) {
	used, _, err := s.used(ctx, userID)
	if err != nil {
		return false, err
	}
	return used < s.MonthlyFreeCalls, nil
}

// RecordCall appends a ledger entry for the call, successful or not.
func (s *Service) RecordCall(ctx context.Context, call Call) (ledger.Entry, error) {
	entry := ledger.Entry{
		ID:         uuid.NewString(),
		UserID:     call.UserID,
		Endpoint:   call.Endpoint,
		TokensUsed: call.TokensUsed,
		Model:      call.Model,
		Success:    call.Success,
		Notes:      call.Notes,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.Ledger.Append(ctx, entry); err != nil {
		return ledger.Entry{}, err
	}
	return entry, nil
}

// Snapshot reports the user's current usage.
func (s *Service) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	used, since, err := s.used(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	remaining := s.MonthlyFreeCalls - used
	if remaining < 0 {
		remaining = 0
	}
	return Snapshot{
		Limit:           s.MonthlyFreeCalls,
		Used:            used,
		Remaining:       remaining,
		WindowStart:     since,
		WithinFreeLimit: used < s.MonthlyFreeCalls,
	}, nil
}

func (s *Service) used(ctx context.Context, userID string) (int, time.Time, error) {
	since := s.now().UTC().Add(-s.Window)
	n, err := s.Ledger.CountSince(ctx, userID, since, true)
	if err != nil {
		return 0, time.Time{}, err
	}
	return n, since, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
