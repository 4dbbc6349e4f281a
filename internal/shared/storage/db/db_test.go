package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type nopDriver struct{}

func (d nopDriver) Open(name string) (driver.Conn, error) {
	return nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nopStmt{}, nil }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nopTx{}, nil }
func (nopConn) Ping(ctx context.Context) error            { return nil }

type nopStmt struct{}

func (nopStmt) Close() error                                    { return nil }
func (nopStmt) NumInput() int                                   { return -1 }
func (nopStmt) Exec(args []driver.Value) (driver.Result, error) { return nopResult{}, nil }
func (nopStmt) Query(args []driver.Value) (driver.Rows, error)  { return nopRows{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type nopResult struct{}

func (nopResult) LastInsertId() (int64, error) { return 0, nil }
func (nopResult) RowsAffected() (int64, error) { return 0, nil }

type nopRows struct{}

func (nopRows) Columns() []string              { return []string{} }
func (nopRows) Close() error                   { return nil }
func (nopRows) Next(dest []driver.Value) error { return driver.ErrBadConn }

var registerTestDriverOnce sync.Once

func ensureTestDriverRegistered() {
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
}

func withTestDriver(t *testing.T) func() {
	t.Helper()
	ensureTestDriverRegistered()
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return sql.Open("dbtest", dsn)
	}
	return func() {
		openDB = prev
	}
}

func resetShared() {
	sharedMu.Lock()
	sharedDB = nil
	sharedMu.Unlock()
}

func TestSharedReturnsSamePointer(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()
	resetShared()
	defer resetShared()

	db1, err := Shared(context.Background(), "ignored", OptionsFor(ProfileLambda))
	if err != nil {
		t.Fatalf("Shared first: %v", err)
	}
	db2, err := Shared(context.Background(), "ignored", OptionsFor(ProfileLambda))
	if err != nil {
		t.Fatalf("Shared second: %v", err)
	}
	if db1 != db2 {
		t.Fatalf("expected shared pool pointers to match")
	}
}

func TestSharedRetriesAfterFailure(t *testing.T) {
	var calls int32
	ensureTestDriverRegistered()
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, driver.ErrBadConn
		}
		return sql.Open("dbtest", dsn)
	}
	defer func() {
		openDB = prev
	}()
	resetShared()
	defer resetShared()

	if _, err := Shared(context.Background(), "ignored", OptionsFor(ProfileLambda)); err == nil {
		t.Fatalf("expected first call to fail")
	}
	db2, err := Shared(context.Background(), "ignored", OptionsFor(ProfileLambda))
	if err != nil {
		t.Fatalf("expected second call to succeed: %v", err)
	}
	if db2 == nil {
		t.Fatalf("expected db after retry")
	}
}

func TestOptionsForProfiles(t *testing.T) {
	cases := []struct {
		profile  Profile
		maxOpen  int
		pingWait time.Duration
	}{
		{ProfileServer, 10, 5 * time.Second},
		{ProfileLambda, 2, 3 * time.Second},
		{ProfileMigrate, 1, 5 * time.Second},
	}
	for _, tc := range cases {
		opts := OptionsFor(tc.profile)
		if opts.MaxOpenConns != tc.maxOpen {
			t.Fatalf("%s: expected MaxOpenConns=%d, got %d", tc.profile, tc.maxOpen, opts.MaxOpenConns)
		}
		if opts.PingTimeout != tc.pingWait {
			t.Fatalf("%s: expected PingTimeout=%s, got %s", tc.profile, tc.pingWait, opts.PingTimeout)
		}
	}
}

func TestOptionsForAppliesOverrides(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFor(ProfileServer)
	db, err := Connect(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", got)
	}
	if opts.MaxIdleConns != 3 || opts.ConnMaxLifetime != 20*time.Minute || opts.ConnMaxIdleTime != 45*time.Second || opts.PingTimeout != time.Second {
		t.Fatalf("overrides not applied: %+v", opts)
	}
}

func TestOptionsForIgnoresInvalidOverrides(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "-3")
	t.Setenv("DB_PING_TIMEOUT", "soon")

	opts := OptionsFor(ProfileMigrate)
	if opts.MaxOpenConns != 1 {
		t.Fatalf("expected invalid override ignored, got %d", opts.MaxOpenConns)
	}
	if opts.PingTimeout != 5*time.Second {
		t.Fatalf("expected invalid duration ignored, got %s", opts.PingTimeout)
	}
}

func TestRuntimeProfile(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	if RuntimeProfile() != ProfileServer {
		t.Fatalf("expected server profile outside lambda")
	}
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "resume-ats")
	if RuntimeProfile() != ProfileLambda {
		t.Fatalf("expected lambda profile inside lambda")
	}
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", OptionsFor(ProfileServer)); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestEmbeddedMigrationsCreateSchema(t *testing.T) {
	raw, err := migrationFiles.ReadFile("migrations/00001_init.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	sqlText := string(raw)
	for _, want := range []string{"-- +goose Up", "-- +goose Down", "ai_calls", "ats_scores", "job_analysis_cache"} {
		if !strings.Contains(sqlText, want) {
			t.Fatalf("migration missing %q", want)
		}
	}
}

func TestRunMigrationsNilDatabase(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected nil database to be a no-op, got %v", err)
	}
	if err := RollbackMigration(context.Background(), nil); err != nil {
		t.Fatalf("expected nil database to be a no-op, got %v", err)
	}
}
