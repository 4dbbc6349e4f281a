package ledger

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo keeps entries in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string][]Entry
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string][]Entry)}
}

// Append stores the entry.
func (r *MemoryRepo) Append(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(entry); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[entry.UserID] = append(r.byUser[entry.UserID], entry)
	return nil
}

// CountSince counts the user's entries created at or after since.
func (r *MemoryRepo) CountSince(ctx context.Context, userID string, since time.Time, successOnly bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.byUser[userID] {
		if e.CreatedAt.Before(since) {
			continue
		}
		if successOnly && !e.Success {
			continue
		}
		n++
	}
	return n, nil
}

// ListByUser returns the user's entries, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Entry, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	entries := make([]Entry, len(r.byUser[userID]))
	copy(entries, r.byUser[userID])
	r.mu.RUnlock()

	total := len(entries)
	if offset >= total {
		return []Entry{}, total, nil
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return entries[offset:end], total, nil
}
