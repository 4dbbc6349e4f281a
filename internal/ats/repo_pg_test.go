package ats

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rec := Record{
		ID:        "score-1",
		UserID:    "user-1",
		ResumeID:  "resume-1",
		Score:     67,
		Keywords:  "java,spring,docker",
		CreatedAt: time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO ats_scores").
		WithArgs(rec.ID, rec.UserID, sqlmock.AnyArg(), rec.Score, rec.Keywords, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM ats_scores`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT id, user_id, resume_id, score, keywords, created_at`).
		WithArgs("user-1", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "resume_id", "score", "keywords", "created_at"}).
			AddRow("s2", "user-1", nil, 50, "", created.Add(time.Hour)).
			AddRow("s1", "user-1", "resume-1", 67, "java,spring,docker", created))

	repo := &PGRepo{DB: db}
	records, total, err := repo.ListByUser(context.Background(), "user-1", 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if total != 2 || len(records) != 2 || records[0].ResumeID != "" || records[1].Score != 67 {
		t.Fatalf("unexpected records total=%d %+v", total, records)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
