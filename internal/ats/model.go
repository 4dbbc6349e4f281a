package ats

import (
	"context"
	"time"
)

// Record is a persisted scoring attempt. Records are immutable.
type Record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ResumeID  string    `json:"resumeId"`
	Score     int       `json:"score"`
	Keywords  string    `json:"keywords"`
	CreatedAt time.Time `json:"createdAt"`
}

// Result is the outcome of scoring a resume against a job posting.
type Result struct {
	Score    int      `json:"score"`
	Keywords []string `json:"keywords"`
	Matched  []string `json:"matched"`
	Missing  []string `json:"missing"`
}

// Repo stores score records.
type Repo interface {
	Create(ctx context.Context, record Record) error
	// ListByUser returns records newest first along with the total count.
	// A limit of zero returns every record from offset on.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, int, error)
}
