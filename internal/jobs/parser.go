package jobs

import (
	"regexp"
	"strings"

	"resume-ats/internal/lexicon"
)

var (
	titlePattern = regexp.MustCompile(`(?i)(senior|junior|lead|principal)?\s*(software|data|product|design|marketing|sales)[^\n]{0,40}(engineer|developer|designer|manager|analyst|specialist)`)
	numberedItem = regexp.MustCompile(`^[0-9]+[).]`)
	numberPrefix = regexp.MustCompile(`^[0-9]+[).]\s*`)
	bulletPrefix = regexp.MustCompile(`^[-•]\s*`)
)

// Parser extracts structure from job posting text. It holds no mutable state.
type Parser struct {
	Lexicon lexicon.Lexicon
}

// NewParser returns a Parser over the default lexicon.
func NewParser() Parser {
	return Parser{Lexicon: lexicon.Default}
}

// Parse never fails: empty or malformed input yields empty collections and
// an unspecified experience level.
func (p Parser) Parse(text string) ParsedJobDescription {
	out := emptyParsed()
	if strings.TrimSpace(text) == "" {
		return out
	}
	lex := p.Lexicon
	if lex.Len() == 0 {
		lex = lexicon.Default
	}
	out.Title = extractTitle(text)
	out.ExperienceLevel = extractLevel(text)
	out.Skills = lex.Match(text)
	out.Responsibilities = extractResponsibilities(text)
	return out
}

func extractTitle(text string) string {
	if m := titlePattern.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "engineer") || strings.Contains(lower, "developer") {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// Order matters: "senior" wins even when junior markers also appear.
func extractLevel(text string) ExperienceLevel {
	l := strings.ToLower(text)
	switch {
	case strings.Contains(l, "senior"):
		return LevelSenior
	case strings.Contains(l, "mid-level"), strings.Contains(l, "mid level"), strings.Contains(l, "intermediate"):
		return LevelMid
	case strings.Contains(l, "junior"), strings.Contains(l, "entry"), strings.Contains(l, "graduate"):
		return LevelJunior
	default:
		return LevelUnspecified
	}
}

func extractResponsibilities(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)
		if !strings.HasPrefix(t, "-") && !strings.HasPrefix(t, "•") && !numberedItem.MatchString(t) {
			continue
		}
		t = numberPrefix.ReplaceAllString(t, "")
		t = bulletPrefix.ReplaceAllString(t, "")
		out = append(out, t)
	}
	return out
}
