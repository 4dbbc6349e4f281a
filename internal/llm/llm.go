package llm

import (
	"context"
	"errors"
	"fmt"
)

// OutcomeKind tags the result of a primary provider attempt.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeUnavailable
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "failed"
	}
}

// Outcome is what a primary provider returns for one prompt.
type Outcome struct {
	Kind       OutcomeKind
	Text       string
	Reason     string
	StatusCode int
	TokensUsed *int
	Model      string
}

// Succeeded reports whether the outcome carries provider text.
func (o Outcome) Succeeded() bool { return o.Kind == OutcomeSuccess }

// Success builds a successful outcome.
func Success(text, model string, tokens *int) Outcome {
	return Outcome{Kind: OutcomeSuccess, Text: text, Model: model, TokensUsed: tokens}
}

// Unavailable builds an outcome for a provider that was never called.
func Unavailable(reason string) Outcome {
	return Outcome{Kind: OutcomeUnavailable, Reason: reason}
}

// Failed builds an outcome for a call that was made and did not succeed.
func Failed(reason string, statusCode int) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason, StatusCode: statusCode}
}

// Provider is a primary text-generation backend.
type Provider interface {
	Name() string
	Model() string
	Invoke(ctx context.Context, prompt string) Outcome
}

// Fallback is the secondary text generator used when the primary cannot
// serve a request.
type Fallback interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by providers constructed without a credential.
var ErrNotConfigured = errors.New("provider not configured")

// StatusError is a non-success response from a provider API.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s http status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s http status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// OutcomeFromError maps a provider error onto an Outcome. A missing
// credential is Unavailable; everything else, timeouts included, is Failed.
func OutcomeFromError(err error) Outcome {
	if errors.Is(err, ErrNotConfigured) {
		return Unavailable(err.Error())
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return Failed(err.Error(), statusErr.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Failed("timeout: "+err.Error(), 0)
	}
	return Failed(err.Error(), 0)
}

// Unconfigured is a Provider that always reports itself unavailable.
type Unconfigured struct {
	ProviderName string
	ModelName    string
}

func (u Unconfigured) Name() string  { return u.ProviderName }
func (u Unconfigured) Model() string { return u.ModelName }

// Invoke never calls out.
func (u Unconfigured) Invoke(context.Context, string) Outcome {
	return Unavailable(fmt.Sprintf("%s: %s", u.ProviderName, ErrNotConfigured))
}
