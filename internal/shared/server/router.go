package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/assist"
	"resume-ats/internal/ats"
	"resume-ats/internal/jobs"
	"resume-ats/internal/ledger"
	"resume-ats/internal/services/health"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/server/middleware"
	"resume-ats/internal/usage"
)

const (
	healthPath  = "/api/v1/health"
	metricsPath = "/metrics"
	aiPrefix    = "/api/v1/ai/"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config        config.Config
	Health        *health.Service
	JobsHandler   *jobs.Handler
	ATSHandler    *ats.Handler
	AssistHandler *assist.Handler
	LedgerHandler *ledger.Handler
	UsageHandler  *usage.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	cfg := deps.Config
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.Identity(healthPath, metricsPath),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: middleware.GroupByPathPrefix(aiPrefix, middleware.RateLimitGroupAI),
			Rules: map[string]middleware.RateLimitRule{
				middleware.RateLimitGroupDefault: {PerMinute: cfg.RateLimitPerMin, Burst: cfg.RateLimitBurst},
				middleware.RateLimitGroupAI:      {PerMinute: cfg.RateLimitAIPerMin, Burst: cfg.RateLimitAIBurst},
			},
		}),
	)

	r.GET(metricsPath, metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			c.JSON(http.StatusOK, gin.H{"ok": true})
			return
		}
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})

	if deps.JobsHandler != nil {
		deps.JobsHandler.RegisterRoutes(api)
	}
	if deps.ATSHandler != nil {
		deps.ATSHandler.RegisterRoutes(api)
	}
	if deps.AssistHandler != nil {
		deps.AssistHandler.RegisterRoutes(api)
	}
	if deps.LedgerHandler != nil {
		deps.LedgerHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
