package fallback

import "context"

// DegradedPrefix marks text produced without a real model.
const DegradedPrefix = "[fallback] "

// Echo is an offline fallback that returns the prompt behind a degraded
// marker. It never fails.
type Echo struct{}

func (Echo) Name() string { return "fallback" }

// Complete returns the marked prompt.
func (Echo) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return DegradedPrefix + prompt, nil
}
