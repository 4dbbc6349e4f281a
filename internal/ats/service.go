package ats

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/shared/util"
)

// History is one page of a user's score records.
type History struct {
	Scores        []Record `json:"scores"`
	TotalElements int      `json:"totalElements"`
	TotalPages    int      `json:"totalPages"`
	CurrentPage   int      `json:"currentPage"`
	Size          int      `json:"size"`
}

// Service scores resumes and keeps the score history.
type Service struct {
	Repo   Repo
	Scorer Scorer
	Now    func() time.Time
}

// NewService constructs a Service over the default lexicon.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Scorer: NewScorer(), Now: time.Now}
}

// Score computes the match and persists a record, even when the job text has
// no keywords. A persistence failure is returned with the computed result.
func (s *Service) Score(ctx context.Context, userID, resumeID, resumeText, jobText string) (Record, Result, error) {
	res := s.Scorer.Score(resumeText, jobText)
	rec := Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		ResumeID:  resumeID,
		Score:     res.Score,
		Keywords:  strings.Join(res.Keywords, ","),
		CreatedAt: s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return Record{}, res, fmt.Errorf("persist ats score: %w", err)
	}
	metrics.IncATSScore()
	telemetry.Info("ats.scored", map[string]any{
		"user_id":   userID,
		"score_id":  rec.ID,
		"resume_id": resumeID,
		"score":     res.Score,
		"keywords":  len(res.Keywords),
		"matched":   len(res.Matched),
	})
	return rec, res, nil
}

// History returns a zero-based page of the user's records, newest first.
func (s *Service) History(ctx context.Context, userID string, page, size int) (History, error) {
	page, size = util.NormalizePage(page, size)
	records, total, err := s.Repo.ListByUser(ctx, userID, size, page*size)
	if err != nil {
		return History{}, err
	}
	return History{
		Scores:        records,
		TotalElements: total,
		TotalPages:    util.TotalPages(total, size),
		CurrentPage:   page,
		Size:          size,
	}, nil
}

// ExportCSV writes every record for the user as CSV.
func (s *Service) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	records, _, err := s.Repo.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "resumeId", "score", "keywords", "createdAt"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.ID, r.ResumeID, strconv.Itoa(r.Score), r.Keywords, r.CreatedAt.UTC().Format(time.RFC3339)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
