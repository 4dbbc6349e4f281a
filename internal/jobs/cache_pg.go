package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGCache implements Cache using the job_analysis_cache table.
type PGCache struct {
	DB *sql.DB
}

// Get loads a cached parse by key.
func (c *PGCache) Get(ctx context.Context, key string) (ParsedJobDescription, bool, error) {
	const query = `SELECT parsed_data FROM job_analysis_cache WHERE job_id = $1 LIMIT 1`
	var raw []byte
	err := c.DB.QueryRowContext(ctx, query, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ParsedJobDescription{}, false, nil
		}
		return ParsedJobDescription{}, false, err
	}
	var parsed ParsedJobDescription
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ParsedJobDescription{}, false, err
	}
	if parsed.Skills == nil {
		parsed.Skills = []string{}
	}
	if parsed.Responsibilities == nil {
		parsed.Responsibilities = []string{}
	}
	return parsed, true, nil
}

// Put upserts a parse result.
func (c *PGCache) Put(ctx context.Context, key string, parsed ParsedJobDescription) error {
	payload, err := json.Marshal(parsed)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO job_analysis_cache (job_id, parsed_data, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (job_id) DO UPDATE SET parsed_data = EXCLUDED.parsed_data`
	_, err = c.DB.ExecContext(ctx, query, key, payload, time.Now().UTC())
	return err
}
