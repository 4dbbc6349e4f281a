package lexicon

import "strings"

// Lexicon is an ordered, fixed vocabulary of skill and technology terms.
// Terms are stored lowercased and matched as literal substrings.
type Lexicon struct {
	terms []string
}

// Default is the vocabulary shared by job parsing and ATS scoring.
var Default = New(
	"java",
	"spring",
	"react",
	"node",
	"python",
	"sql",
	"aws",
	"docker",
	"kubernetes",
	"graphql",
	"rest",
	"typescript",
	"git",
	"ci/cd",
	"microservices",
)

// New builds a Lexicon, lowercasing terms and dropping blanks and duplicates.
func New(terms ...string) Lexicon {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return Lexicon{terms: out}
}

// Terms returns a copy of the vocabulary in iteration order.
func (l Lexicon) Terms() []string {
	return append([]string(nil), l.terms...)
}

// Len reports the number of terms.
func (l Lexicon) Len() int {
	return len(l.terms)
}

// Contains reports whether term is part of the vocabulary.
func (l Lexicon) Contains(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	for _, t := range l.terms {
		if t == term {
			return true
		}
	}
	return false
}

// Match returns every term found as a substring of the lowercased text,
// in lexicon order. The result is never nil.
func (l Lexicon) Match(text string) []string {
	lower := strings.ToLower(text)
	out := make([]string, 0, len(l.terms))
	if lower == "" {
		return out
	}
	for _, t := range l.terms {
		if strings.Contains(lower, t) {
			out = append(out, t)
		}
	}
	return out
}
