package ats

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using the ats_scores table.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a score record.
func (r *PGRepo) Create(ctx context.Context, record Record) error {
	const query = `
INSERT INTO ats_scores (id, user_id, resume_id, score, keywords, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	var resumeID sql.NullString
	if record.ResumeID != "" {
		resumeID = sql.NullString{String: record.ResumeID, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		resumeID,
		record.Score,
		record.Keywords,
		record.CreatedAt,
	)
	return err
}

// ListByUser returns a user's records, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM ats_scores WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		offset = 0
	}
	const base = `
SELECT id, user_id, resume_id, score, keywords, created_at
FROM ats_scores
WHERE user_id = $1
ORDER BY created_at DESC`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.DB.QueryContext(ctx, base+` LIMIT $2 OFFSET $3`, userID, limit, offset)
	} else {
		rows, err = r.DB.QueryContext(ctx, base+` OFFSET $2`, userID, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			rec      Record
			resumeID sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &resumeID, &rec.Score, &rec.Keywords, &rec.CreatedAt); err != nil {
			return nil, 0, err
		}
		rec.ResumeID = resumeID.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
