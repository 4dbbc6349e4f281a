package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameLen = 128

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName turns a caller-supplied name into a single safe path
// segment for object keys. Traversal and dot-only names are rejected.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if strings.Contains(s, "..") {
		return "", ErrInvalidFileName
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsSpace(r):
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	if strings.Trim(s, "._") == "" {
		return "", ErrInvalidFileName
	}
	if len(s) > maxFileNameLen {
		s = strings.ToValidUTF8(s[:maxFileNameLen], "")
	}
	return s, nil
}
