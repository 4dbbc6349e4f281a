package health

import (
	"context"
	"errors"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		wantOK bool
		wantDB string
	}{
		{name: "memory", db: nil, wantOK: true, wantDB: "memory"},
		{name: "reachable", db: pingFunc(func(context.Context) error { return nil }), wantOK: true, wantDB: "ok"},
		{name: "unreachable", db: pingFunc(func(context.Context) error { return errors.New("refused") }), wantOK: false, wantDB: "unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.db, "openai", "fallback")
			got := svc.Status(context.Background())
			if got.OK != tt.wantOK || got.Database != tt.wantDB {
				t.Fatalf("unexpected status %+v", got)
			}
			if got.Provider != "openai" || got.Fallback != "fallback" {
				t.Fatalf("unexpected providers %+v", got)
			}
		})
	}
}
