package assist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-ats/internal/ledger"
	"resume-ats/internal/llm"
	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/usage"
)

// Ledger endpoint tags, one per task.
const (
	EndpointSummary        = "/ai/summary"
	EndpointSkills         = "/ai/skills"
	EndpointRewriteBullets = "/ai/rewrite-bullets"
	EndpointOptimizeForATS = "/ai/ats-optimize"
	EndpointATSNarrative   = "/ai/ats-score"
)

// LimitExceededMarker prefixes the fallback prompt when the quota routes a
// call away from the primary provider.
const LimitExceededMarker = "[limit-exceeded] "

const quotaSuffix = ":quota"

// ErrFallbackFailed is the only fatal orchestration error: the fallback could
// not produce any text.
var ErrFallbackFailed = errors.New("fallback provider failed")

// Quota is the admission and accounting surface the orchestrator needs.
type Quota interface {
	IsWithinFreeLimit(ctx context.Context, userID string) (bool, error)
	RecordCall(ctx context.Context, call usage.Call) (ledger.Entry, error)
}

// Result is the text returned to the caller plus the ledger entry recorded
// for the call.
type Result struct {
	Text  string
	Entry ledger.Entry
}

// Orchestrator runs the primary then fallback cascade for each AI task and
// records exactly one ledger entry per call.
type Orchestrator struct {
	Primary  llm.Provider
	Fallback llm.Fallback
	Quota    Quota
	// Timeout bounds each primary attempt; a timeout counts as a failure.
	Timeout time.Duration
	// Serializer, when set, makes the admission check and ledger append
	// atomic per user.
	Serializer *usage.Serializer
}

// NewOrchestrator constructs an Orchestrator. A nil primary is treated as
// unconfigured.
func NewOrchestrator(primary llm.Provider, fallback llm.Fallback, quota Quota, timeout time.Duration) *Orchestrator {
	if primary == nil {
		primary = llm.Unconfigured{ProviderName: "none"}
	}
	return &Orchestrator{Primary: primary, Fallback: fallback, Quota: quota, Timeout: timeout}
}

// Summary drafts professional summaries.
func (o *Orchestrator) Summary(ctx context.Context, userID string, req SummaryRequest) (Result, error) {
	return o.run(ctx, userID, EndpointSummary, req.prompt())
}

// SuggestSkills drafts skill categories, clusters and synonyms.
func (o *Orchestrator) SuggestSkills(ctx context.Context, userID string, req SkillsRequest) (Result, error) {
	return o.run(ctx, userID, EndpointSkills, req.prompt())
}

// RewriteBullets rewrites resume bullets.
func (o *Orchestrator) RewriteBullets(ctx context.Context, userID string, req BulletRewriteRequest) (Result, error) {
	return o.run(ctx, userID, EndpointRewriteBullets, req.prompt())
}

// OptimizeForATS rewrites bullets for ATS keyword coverage. It shares the
// bullet template and is tracked under its own endpoint.
func (o *Orchestrator) OptimizeForATS(ctx context.Context, userID string, req BulletRewriteRequest) (Result, error) {
	return o.run(ctx, userID, EndpointOptimizeForATS, req.prompt())
}

// ATSNarrative reviews ATS compatibility in prose.
func (o *Orchestrator) ATSNarrative(ctx context.Context, userID string, req AtsNarrativeRequest) (Result, error) {
	return o.run(ctx, userID, EndpointATSNarrative, req.prompt())
}

// run executes one cascade. Once started, a call is never aborted by the
// caller going away: providers run to completion or Timeout, and the ledger
// entry is always written.
func (o *Orchestrator) run(ctx context.Context, userID, endpoint string, prompt llm.Prompt) (Result, error) {
	ctx = context.WithoutCancel(ctx)
	rendered, err := prompt.Render()
	if err != nil {
		return Result{}, err
	}
	if o.Serializer != nil {
		release := o.Serializer.Lock(userID)
		defer release()
	}
	start := time.Now()

	within, err := o.Quota.IsWithinFreeLimit(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("check quota: %w", err)
	}

	var (
		text     string
		model    string
		notes    string
		tokens   *int
		fallErr  error
		outcome  = llm.Unavailable("skipped")
		fellBack = true
	)
	switch {
	case !within:
		model = o.Fallback.Name() + quotaSuffix
		notes = "quota exceeded"
		text, fallErr = o.Fallback.Complete(ctx, LimitExceededMarker+rendered)
	default:
		outcome = o.invokePrimary(ctx, rendered)
		if outcome.Succeeded() {
			fellBack = false
			text = outcome.Text
			tokens = outcome.TokensUsed
			model = outcome.Model
			if model == "" {
				model = o.Primary.Model()
			}
			break
		}
		model = o.Fallback.Name()
		notes = fmt.Sprintf("primary %s: %s", outcome.Kind, outcome.Reason)
		text, fallErr = o.Fallback.Complete(ctx, rendered)
	}
	route := metrics.RoutePrimary
	switch {
	case !within:
		route = metrics.RouteQuota
	case fellBack:
		route = metrics.RouteFallback
	}
	metrics.AssistCall(endpoint, route, fallErr == nil)
	if fallErr != nil {
		notes = joinNotes(notes, "fallback failed: "+fallErr.Error())
	}

	entry, recErr := o.Quota.RecordCall(ctx, usage.Call{
		UserID:     userID,
		Endpoint:   endpoint,
		TokensUsed: tokens,
		Success:    fallErr == nil,
		Model:      model,
		Notes:      notes,
	})

	fields := telemetry.WithProvider(map[string]any{
		"user_id":      userID,
		"endpoint":     endpoint,
		"within_quota": within,
		"primary":      outcome.Kind.String(),
		"served_by":    model,
		"success":      fallErr == nil,
		"duration_ms":  float64(time.Since(start).Microseconds()) / 1000.0,
	}, o.Primary.Name(), o.Primary.Model())
	if notes != "" {
		fields["notes"] = notes
	}
	if recErr != nil {
		fields["error"] = recErr.Error()
		telemetry.Error("assist.call", fields)
		return Result{}, fmt.Errorf("record ai call: %w", recErr)
	}
	if fallErr != nil {
		telemetry.Error("assist.call", fields)
		return Result{Entry: entry}, fmt.Errorf("%w: %v", ErrFallbackFailed, fallErr)
	}
	telemetry.Info("assist.call", fields)
	return Result{Text: text, Entry: entry}, nil
}

func (o *Orchestrator) invokePrimary(ctx context.Context, prompt string) llm.Outcome {
	callCtx := ctx
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}
	start := time.Now()
	out := o.Primary.Invoke(callCtx, prompt)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if !out.Succeeded() && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		out = llm.Failed("timeout after "+o.Timeout.String(), 0)
	}
	metrics.ObserveProviderDuration(out.Kind.String(), elapsed)
	return out
}

func joinNotes(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
