package assist

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/shared/server/middleware"
	"resume-ats/internal/shared/server/respond"
)

// Handler exposes the assist tasks over HTTP.
type Handler struct {
	Orch *Orchestrator
}

// NewHandler constructs a Handler.
func NewHandler(orch *Orchestrator) *Handler {
	return &Handler{Orch: orch}
}

// RegisterRoutes attaches the AI routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	summary := h.task(EndpointSummary, "summary", func(ctx context.Context, userID string, p map[string]any) (Result, error) {
		req, err := Decode[SummaryRequest](p)
		if err != nil {
			return Result{}, err
		}
		return h.Orch.Summary(ctx, userID, req)
	})
	skills := h.task(EndpointSkills, "skills", func(ctx context.Context, userID string, p map[string]any) (Result, error) {
		req, err := Decode[SkillsRequest](p)
		if err != nil {
			return Result{}, err
		}
		return h.Orch.SuggestSkills(ctx, userID, req)
	})

	rg.POST("/ai/summary", summary)
	rg.POST("/ai/generate-summary", summary)
	rg.POST("/ai/skills", skills)
	rg.POST("/ai/suggest-skills", skills)
	rg.POST("/ai/rewrite-bullets", h.task(EndpointRewriteBullets, "rewrites", func(ctx context.Context, userID string, p map[string]any) (Result, error) {
		req, err := Decode[BulletRewriteRequest](p)
		if err != nil {
			return Result{}, err
		}
		return h.Orch.RewriteBullets(ctx, userID, req)
	}))
	rg.POST("/ai/ats-optimize", h.task(EndpointOptimizeForATS, "optimized", func(ctx context.Context, userID string, p map[string]any) (Result, error) {
		req, err := Decode[BulletRewriteRequest](p)
		if err != nil {
			return Result{}, err
		}
		return h.Orch.OptimizeForATS(ctx, userID, req)
	}))
	rg.POST("/ai/ats-score", h.task(EndpointATSNarrative, "ats", func(ctx context.Context, userID string, p map[string]any) (Result, error) {
		req, err := Decode[AtsNarrativeRequest](p)
		if err != nil {
			return Result{}, err
		}
		return h.Orch.ATSNarrative(ctx, userID, req)
	}))
}

type taskFunc func(ctx context.Context, userID string, payload map[string]any) (Result, error)

func (h *Handler) task(endpoint, key string, run taskFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("aiEndpoint", endpoint)
		userID := middleware.UserIDFromContext(c)
		if userID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity")
			return
		}
		payload := map[string]any{}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&payload); err != nil {
				respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body")
				return
			}
		}

		res, err := run(c.Request.Context(), userID, payload)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidPayload):
				respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
			case errors.Is(err, ErrFallbackFailed):
				respond.Error(c, http.StatusBadGateway, "ai_unavailable", err.Error())
			default:
				respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}
		respond.OK(c, gin.H{key: res.Text})
	}
}
