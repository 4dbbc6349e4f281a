package util

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ats_history.csv", "ats_history.csv"},
		{" a/b\\c.csv ", "a_b_c.csv"},
		{"  ai logs.csv ", "ai_logs.csv"},
		{"bad\x00name.csv", "badname.csv"},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestSanitizeFileNameRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "../etc/passwd", ".", "_/_"} {
		if _, err := SanitizeFileName(in); !errors.Is(err, ErrInvalidFileName) {
			t.Fatalf("%q: expected ErrInvalidFileName, got %v", in, err)
		}
	}
}

func TestSanitizeFileNameTruncates(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("x", 300) + ".csv")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(got) != maxFileNameLen {
		t.Fatalf("expected length %d, got %d", maxFileNameLen, len(got))
	}
}
