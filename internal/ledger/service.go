package ledger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"resume-ats/internal/shared/storage/object"
	"resume-ats/internal/shared/util"
)

// Page is one page of a user's call history.
type Page struct {
	Logs          []Entry `json:"logs"`
	TotalElements int     `json:"totalElements"`
	TotalPages    int     `json:"totalPages"`
	CurrentPage   int     `json:"currentPage"`
	Size          int     `json:"size"`
}

// Service reads and exports the ledger.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
	Now   func() time.Time
}

// NewService constructs a Service. store may be nil when exports to object
// storage are not needed.
func NewService(repo Repo, store object.ObjectStore) *Service {
	return &Service{Repo: repo, Store: store, Now: time.Now}
}

// History returns a zero-based page of the user's entries, newest first.
func (s *Service) History(ctx context.Context, userID string, page, size int) (Page, error) {
	page, size = util.NormalizePage(page, size)
	entries, total, err := s.Repo.ListByUser(ctx, userID, size, page*size)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Logs:          entries,
		TotalElements: total,
		TotalPages:    util.TotalPages(total, size),
		CurrentPage:   page,
		Size:          size,
	}, nil
}

// ExportCSV writes every entry for the user as CSV.
func (s *Service) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	entries, _, err := s.Repo.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return err
	}
	return WriteCSV(w, entries)
}

// ExportToStore writes the user's CSV export to the object store and returns
// its key.
func (s *Service) ExportToStore(ctx context.Context, userID string) (string, error) {
	if s.Store == nil {
		return "", fmt.Errorf("object store not configured")
	}
	var buf bytes.Buffer
	if err := s.ExportCSV(ctx, userID, &buf); err != nil {
		return "", err
	}
	key, err := object.ExportKey(userID, "ai_logs.csv", s.now())
	if err != nil {
		return "", err
	}
	if _, err := s.Store.Put(ctx, key, "text/csv", &buf); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
