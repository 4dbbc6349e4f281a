package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"
)

type recordingStore struct {
	key         string
	contentType string
	body        string
}

func (s *recordingStore) Put(_ context.Context, key, contentType string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.key, s.contentType, s.body = key, contentType, string(data)
	return int64(len(data)), nil
}

func (s *recordingStore) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func seed(t *testing.T, repo *MemoryRepo, n int) {
	t.Helper()
	base := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		tokens := i
		err := repo.Append(context.Background(), Entry{
			ID:         string(rune('a' + i)),
			UserID:     "u1",
			Endpoint:   "/ai/summary",
			TokensUsed: &tokens,
			Model:      "gpt-4o-mini",
			Success:    true,
			Notes:      "ok, \"quoted\"",
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
}

func TestServiceHistoryPaging(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo, 5)
	svc := NewService(repo, nil)

	page, err := svc.History(context.Background(), "u1", 1, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if page.TotalElements != 5 || page.TotalPages != 3 || page.CurrentPage != 1 || page.Size != 2 {
		t.Fatalf("unexpected paging: %+v", page)
	}
	if len(page.Logs) != 2 || page.Logs[0].ID != "c" {
		t.Fatalf("unexpected logs: %+v", page.Logs)
	}
}

func TestServiceExportCSV(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo, 2)
	svc := NewService(repo, nil)

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), "u1", &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "id" || records[1][0] != "b" {
		t.Fatalf("unexpected rows: %v", records)
	}
	if records[1][6] != "ok, \"quoted\"" {
		t.Fatalf("notes not round-tripped: %q", records[1][6])
	}
}

func TestServiceExportToStore(t *testing.T) {
	repo := NewMemoryRepo()
	seed(t, repo, 1)
	store := &recordingStore{}
	svc := NewService(repo, store)
	svc.Now = func() time.Time { return time.Date(2026, time.June, 2, 3, 4, 5, 0, time.UTC) }

	key, err := svc.ExportToStore(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ExportToStore: %v", err)
	}
	if key != store.key || !strings.HasSuffix(key, "20260602T030405Z_ai_logs.csv") {
		t.Fatalf("unexpected key %q", key)
	}
	if store.contentType != "text/csv" || !strings.HasPrefix(store.body, "id,userId,endpoint") {
		t.Fatalf("unexpected upload: %q %q", store.contentType, store.body)
	}
}
