package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/assist"
	"resume-ats/internal/ats"
	"resume-ats/internal/jobs"
	"resume-ats/internal/ledger"
	"resume-ats/internal/llm"
	"resume-ats/internal/llm/anthropic"
	"resume-ats/internal/llm/fallback"
	"resume-ats/internal/llm/gemini"
	"resume-ats/internal/llm/openai"
	"resume-ats/internal/services/health"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/server"
	"resume-ats/internal/shared/storage/db"
	"resume-ats/internal/shared/storage/object"
	localstore "resume-ats/internal/shared/storage/object/local"
	s3store "resume-ats/internal/shared/storage/object/s3"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/usage"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Store    object.ObjectStore
	Primary  llm.Provider
	Fallback llm.Fallback

	LedgerRepo ledger.Repo
	ATSRepo    ats.Repo
	JobCache   jobs.Cache

	UsageService  *usage.Service
	LedgerService *ledger.Service
	ATSService    *ats.Service
	JobsService   *jobs.Service
	Orchestrator  *assist.Orchestrator
	Health        *health.Service
}

// Build prepares shared dependencies and the HTTP router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	primary, err := buildPrimary(ctx, cfg)
	if err != nil {
		return nil, err
	}
	fb, err := buildFallback(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Primary:  primary,
		Fallback: fb,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Health:        app.Health,
		JobsHandler:   jobs.NewHandler(app.JobsService),
		ATSHandler:    ats.NewHandler(app.ATSService),
		AssistHandler: assist.NewHandler(app.Orchestrator),
		LedgerHandler: ledger.NewHandler(app.LedgerService),
		UsageHandler:  usage.NewHandler(app.UsageService),
	})

	telemetry.Info("bootstrap.ready", telemetry.WithProvider(map[string]any{
		"env":      cfg.Env,
		"database": sqlDB != nil,
		"store":    cfg.ObjectStoreType,
		"fallback": fb.Name(),
	}, primary.Name(), primary.Model()))
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildPrimary selects the primary provider. Missing credentials yield a
// provider that reports itself unavailable so every call takes the fallback.
func buildPrimary(ctx context.Context, cfg config.Config) (llm.Provider, error) {
	var p llm.Provider
	switch cfg.LLMProvider {
	case "openai":
		p = openai.New(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.LLMModel,
			Timeout: cfg.ProviderTimeout,
		})
	case "gemini":
		client, err := gemini.New(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.LLMModel})
		if err != nil {
			return nil, err
		}
		p = client
	case "anthropic":
		p = anthropic.New(anthropic.Config{APIKey: cfg.AnthropicAPIKey, Model: cfg.LLMModel})
	default:
		return llm.Unconfigured{ProviderName: "none", ModelName: cfg.LLMModel}, nil
	}
	return llm.WithRetry(p), nil
}

func buildFallback(cfg config.Config) (llm.Fallback, error) {
	if cfg.FallbackMode == "http" {
		return fallback.NewHTTP(cfg.FallbackURL, cfg.FallbackToken, cfg.FallbackTimeout)
	}
	return fallback.Echo{}, nil
}

func buildServices(app *App) {
	cfg := app.Config
	if app.DB != nil {
		app.LedgerRepo = &ledger.PGRepo{DB: app.DB}
		app.ATSRepo = &ats.PGRepo{DB: app.DB}
		if cfg.ParseCacheEnabled {
			app.JobCache = &jobs.PGCache{DB: app.DB}
		}
	} else {
		app.LedgerRepo = ledger.NewMemoryRepo()
		app.ATSRepo = ats.NewMemoryRepo()
		if cfg.ParseCacheEnabled {
			app.JobCache = jobs.NewMemoryCache()
		}
	}

	app.UsageService = usage.NewService(app.LedgerRepo, cfg.MonthlyFreeCalls, cfg.QuotaWindow)
	app.LedgerService = ledger.NewService(app.LedgerRepo, app.Store)
	app.ATSService = ats.NewService(app.ATSRepo)
	app.JobsService = jobs.NewService(app.JobCache)

	app.Orchestrator = assist.NewOrchestrator(app.Primary, app.Fallback, app.UsageService, cfg.ProviderTimeout)
	if cfg.SerializePerUser {
		app.Orchestrator.Serializer = usage.NewSerializer()
	}

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.Health = health.NewService(pinger, app.Primary.Name(), app.Fallback.Name())
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "development":
		return true
	default:
		return false
	}
}
