package ledger

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using the ai_calls table.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts the entry.
func (r *PGRepo) Append(ctx context.Context, entry Entry) error {
	if err := validate(entry); err != nil {
		return err
	}
	var tokens sql.NullInt64
	if entry.TokensUsed != nil {
		tokens = sql.NullInt64{Int64: int64(*entry.TokensUsed), Valid: true}
	}
	const query = `
INSERT INTO ai_calls (id, user_id, endpoint, tokens_used, model, success, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Endpoint,
		tokens,
		nullString(entry.Model),
		entry.Success,
		nullString(entry.Notes),
		entry.CreatedAt,
	)
	return err
}

// CountSince counts the user's entries created at or after since.
func (r *PGRepo) CountSince(ctx context.Context, userID string, since time.Time, successOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM ai_calls WHERE user_id = $1 AND created_at >= $2`
	if successOnly {
		query += ` AND success = TRUE`
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, query, userID, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListByUser returns the user's entries, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Entry, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM ai_calls WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		offset = 0
	}
	const base = `
SELECT id, user_id, endpoint, tokens_used, model, success, notes, created_at
FROM ai_calls
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

	out := []Entry{}
	for rows.Next() {
		var (
			e      Entry
			tokens sql.NullInt64
			model  sql.NullString
			notes  sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Endpoint, &tokens, &model, &e.Success, &notes, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		if tokens.Valid {
			v := int(tokens.Int64)
			e.TokensUsed = &v
		}
		e.Model = model.String
		e.Notes = notes.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
