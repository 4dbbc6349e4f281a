package ats

import (
	"math"
	"strings"

	"resume-ats/internal/lexicon"
)

// NeutralScore is returned when the job text yields no keywords.
const NeutralScore = 50

// Scorer matches resume text against the keywords of a job posting.
type Scorer struct {
	Lexicon lexicon.Lexicon
}

// NewScorer returns a Scorer over the default lexicon.
func NewScorer() Scorer {
	return Scorer{Lexicon: lexicon.Default}
}

// Score computes the keyword match. It never fails; empty text is treated as
// carrying no signal.
func (s Scorer) Score(resumeText, jobText string) Result {
	lex := s.Lexicon
	if lex.Len() == 0 {
		lex = lexicon.Default
	}
	keywords := lex.Match(jobText)
	return ScoreKeywords(resumeText, keywords)
}

// ScoreKeywords scores resume text against an already extracted keyword set.
func ScoreKeywords(resumeText string, keywords []string) Result {
	res := Result{
		Score:    NeutralScore,
		Keywords: append([]string{}, keywords...),
		Matched:  []string{},
		Missing:  []string{},
	}
	if len(keywords) == 0 {
		return res
	}

	lower := strings.ToLower(resumeText)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			res.Matched = append(res.Matched, k)
		} else {
			res.Missing = append(res.Missing, k)
		}
	}
	res.Score = clamp(int(math.Round(100*float64(len(res.Matched))/float64(len(keywords)))), 0, 100)
	return res
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
