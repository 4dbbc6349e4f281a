package assist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"resume-ats/internal/llm"
)

// ErrInvalidPayload is returned when a loosely typed payload cannot be
// decoded into a task request.
var ErrInvalidPayload = errors.New("invalid payload")

// SummaryRequest asks for tailored professional summaries. All fields
// default to empty.
type SummaryRequest struct {
	JobDescription  string `mapstructure:"jobDescription"`
	ResumeText      string `mapstructure:"resumeText"`
	ExistingSummary string `mapstructure:"existingSummary"`
}

// SkillsRequest asks for skill categories and keyword clusters.
type SkillsRequest struct {
	JobDescription string `mapstructure:"jobDescription"`
	ResumeText     string `mapstructure:"resumeText"`
}

// BulletRewriteRequest asks for rewritten resume bullets. A single string
// bullet is accepted as a one-element list.
type BulletRewriteRequest struct {
	JobDescription string   `mapstructure:"jobDescription"`
	Bullets        []string `mapstructure:"bullets"`
}

// AtsNarrativeRequest asks for a narrative ATS compatibility review.
type AtsNarrativeRequest struct {
	JobDescription string `mapstructure:"jobDescription"`
	ResumeText     string `mapstructure:"resumeText"`
}

func (r SummaryRequest) prompt() llm.Prompt {
	return llm.Prompt{Template: llm.TemplateSummary, JobDescription: r.JobDescription, ResumeText: r.ResumeText, ExistingContent: r.ExistingSummary}
}

func (r SkillsRequest) prompt() llm.Prompt {
	return llm.Prompt{Template: llm.TemplateSkills, JobDescription: r.JobDescription, ResumeText: r.ResumeText}
}

func (r BulletRewriteRequest) prompt() llm.Prompt {
	return llm.Prompt{Template: llm.TemplateBulletRewrite, JobDescription: r.JobDescription, ExistingContent: formatBullets(r.Bullets)}
}

func (r AtsNarrativeRequest) prompt() llm.Prompt {
	return llm.Prompt{Template: llm.TemplateATSNarrative, JobDescription: r.JobDescription, ResumeText: r.ResumeText}
}

func formatBullets(bullets []string) string {
	return "[" + strings.Join(bullets, ", ") + "]"
}

// Decode resolves a loosely typed payload into one of the request types.
// Unknown keys are ignored and scalar values are coerced to strings.
func Decode[T SummaryRequest | SkillsRequest | BulletRewriteRequest | AtsNarrativeRequest](payload map[string]any) (T, error) {
	var out T
	if payload == nil {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(payload); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return out, nil
}
