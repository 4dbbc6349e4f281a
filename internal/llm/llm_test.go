package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestOutcomeFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   OutcomeKind
		wantStatus int
	}{
		{name: "not configured", err: fmt.Errorf("openai: %w", ErrNotConfigured), wantKind: OutcomeUnavailable},
		{name: "status", err: &StatusError{Provider: "openai", StatusCode: 503}, wantKind: OutcomeFailed, wantStatus: 503},
		{name: "timeout", err: fmt.Errorf("call: %w", context.DeadlineExceeded), wantKind: OutcomeFailed},
		{name: "other", err: errors.New("boom"), wantKind: OutcomeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := OutcomeFromError(tt.err)
			if out.Kind != tt.wantKind || out.StatusCode != tt.wantStatus {
				t.Fatalf("got %+v", out)
			}
			if out.Reason == "" {
				t.Fatalf("expected reason")
			}
		})
	}
	if out := OutcomeFromError(context.DeadlineExceeded); !strings.HasPrefix(out.Reason, "timeout") {
		t.Fatalf("expected timeout reason, got %q", out.Reason)
	}
}

func TestUnconfiguredIsUnavailable(t *testing.T) {
	out := Unconfigured{ProviderName: "none"}.Invoke(context.Background(), "x")
	if out.Kind != OutcomeUnavailable || out.Succeeded() {
		t.Fatalf("got %+v", out)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: `say "hi"`, want: "say 'hi'"},
		{in: `line one\nline two`, want: "line one line two"},
		{in: "line one\nline two\r\nthree", want: "line one line two three"},
		{in: "  padded  ", want: "padded"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPromptRender(t *testing.T) {
	p := Prompt{
		Template:        TemplateSummary,
		JobDescription:  "Senior \"Go\" engineer\nRemote",
		ResumeText:      "Built APIs",
		ExistingContent: "Old summary",
	}
	got, err := p.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{"concise, balanced, detailed", "jobDescription: Senior 'Go' engineer Remote", "resume: Built APIs", "existingSummary: Old summary"} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "{{") {
		t.Fatalf("unreplaced placeholder:\n%s", got)
	}
}

func TestPromptRenderEveryTemplate(t *testing.T) {
	for _, tmpl := range []Template{TemplateSummary, TemplateSkills, TemplateBulletRewrite, TemplateATSNarrative} {
		got, err := Prompt{Template: tmpl}.Render()
		if err != nil || got == "" || strings.Contains(got, "{{") {
			t.Fatalf("template %s rendered %q, %v", tmpl, got, err)
		}
	}
	if _, err := (Prompt{Template: "unknown"}).Render(); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}

type scriptedProvider struct {
	outcomes []Outcome
	calls    int
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "m" }
func (p *scriptedProvider) Invoke(context.Context, string) Outcome {
	out := p.outcomes[p.calls]
	p.calls++
	return out
}

func TestRetryOnServerError(t *testing.T) {
	base := &scriptedProvider{outcomes: []Outcome{Failed("status 502", 502), Success("ok", "m", nil)}}
	p := retrying{base: base, delay: 0}
	out := p.Invoke(context.Background(), "x")
	if !out.Succeeded() || base.calls != 2 {
		t.Fatalf("expected retry to succeed, got %+v after %d calls", out, base.calls)
	}
}

func TestNoRetryOnClientErrorOrUnavailable(t *testing.T) {
	for _, first := range []Outcome{Failed("status 400", 400), Unavailable("no key"), Failed("timeout: deadline", 0)} {
		base := &scriptedProvider{outcomes: []Outcome{first, Success("ok", "m", nil)}}
		out := retrying{base: base, delay: 0}.Invoke(context.Background(), "x")
		if out.Kind != first.Kind || base.calls != 1 {
			t.Fatalf("unexpected retry for %+v: calls=%d", first, base.calls)
		}
	}
}
