package ledger

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidEntry is returned when an entry is missing required fields.
var ErrInvalidEntry = errors.New("invalid ledger entry")

// Entry is one AI invocation attempt. Entries are never updated.
type Entry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Endpoint   string    `json:"endpoint"`
	TokensUsed *int      `json:"tokensUsed,omitempty"`
	Model      string    `json:"model,omitempty"`
	Success    bool      `json:"success"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Repo is the append-only store behind the ledger.
type Repo interface {
	Append(ctx context.Context, entry Entry) error
	CountSince(ctx context.Context, userID string, since time.Time, successOnly bool) (int, error)
	// ListByUser returns entries newest first along with the total count.
	// A limit of zero returns every entry from offset on.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Entry, int, error)
}

func validate(entry Entry) error {
	if entry.ID == "" || entry.UserID == "" || entry.Endpoint == "" || entry.CreatedAt.IsZero() {
		return ErrInvalidEntry
	}
	return nil
}
