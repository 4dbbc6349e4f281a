package object

import (
	"strings"
	"testing"
	"time"
)

func TestExportKey(t *testing.T) {
	at := time.Date(2026, time.March, 4, 5, 6, 7, 0, time.UTC)
	key, err := ExportKey("user-1", "ai_logs.csv", at)
	if err != nil {
		t.Fatalf("ExportKey: %v", err)
	}
	if !strings.HasSuffix(key, "/exports/20260304T050607Z_ai_logs.csv") {
		t.Fatalf("unexpected key %q", key)
	}
	if strings.Contains(key, "user-1") {
		t.Fatalf("key leaks raw user id: %q", key)
	}
}

func TestExportKeyRejectsTraversal(t *testing.T) {
	if _, err := ExportKey("user-1", "../etc/passwd", time.Now()); err == nil {
		t.Fatalf("expected error for traversal name")
	}
}
