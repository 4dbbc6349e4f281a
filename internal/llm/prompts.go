package llm

import (
	_ "embed"
	"fmt"
	"strings"
)

var (
	//go:embed prompts/summary.txt
	promptSummary string
	//go:embed prompts/skills.txt
	promptSkills string
	//go:embed prompts/bullet_rewrite.txt
	promptBulletRewrite string
	//go:embed prompts/ats_narrative.txt
	promptATSNarrative string
)

// Template names a task-specific instruction template.
type Template string

const (
	TemplateSummary       Template = "summary"
	TemplateSkills        Template = "skills"
	TemplateBulletRewrite Template = "bulletRewrite"
	TemplateATSNarrative  Template = "atsNarrative"
)

// Prompt is the ephemeral input to one provider call.
type Prompt struct {
	Template        Template
	JobDescription  string
	ResumeText      string
	ExistingContent string
}

// Render sanitizes every free-text field and interpolates it into the
// template.
func (p Prompt) Render() (string, error) {
	tmpl, ok := templateText(p.Template)
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", p.Template)
	}
	replacer := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", Sanitize(p.JobDescription),
		"{{RESUME_TEXT}}", Sanitize(p.ResumeText),
		"{{EXISTING_CONTENT}}", Sanitize(p.ExistingContent),
	)
	return strings.TrimSpace(replacer.Replace(tmpl)), nil
}

func templateText(t Template) (string, bool) {
	switch t {
	case TemplateSummary:
		return promptSummary, true
	case TemplateSkills:
		return promptSkills, true
	case TemplateBulletRewrite:
		return promptBulletRewrite, true
	case TemplateATSNarrative:
		return promptATSNarrative, true
	default:
		return "", false
	}
}

var sanitizer = strings.NewReplacer(
	`"`, "'",
	`\n`, " ",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// Sanitize swaps double quotes for single quotes and collapses escaped and
// literal newlines to spaces.
func Sanitize(s string) string {
	return strings.TrimSpace(sanitizer.Replace(s))
}
