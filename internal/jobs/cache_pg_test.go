package jobs

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGCacheGetMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT parsed_data FROM job_analysis_cache").
		WithArgs("k1").
		WillReturnError(sql.ErrNoRows)

	cache := &PGCache{DB: db}
	_, ok, err := cache.Get(context.Background(), "k1")
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGCacheGetHit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT parsed_data FROM job_analysis_cache").
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows([]string{"parsed_data"}).
			AddRow([]byte(`{"title":"Data Analyst","experienceLevel":"mid","skills":["sql"]}`)))

	cache := &PGCache{DB: db}
	got, ok, err := cache.Get(context.Background(), "k1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Title != "Data Analyst" || got.ExperienceLevel != LevelMid || got.Responsibilities == nil {
		t.Fatalf("unexpected parse %+v", got)
	}
}

func TestPGCachePutUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO job_analysis_cache").
		WithArgs("k1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cache := &PGCache{DB: db}
	if err := cache.Put(context.Background(), "k1", emptyParsed()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
