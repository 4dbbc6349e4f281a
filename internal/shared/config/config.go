package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"resume-ats/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Env         string
	Port        string
	LogLevel    string
	DatabaseURL string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string

	MonthlyFreeCalls  int
	QuotaWindow       time.Duration
	SerializePerUser  bool
	RateLimitAIPerMin float64
	RateLimitAIBurst  int
	RateLimitPerMin   float64
	RateLimitBurst    int
	ParseCacheEnabled bool
	ProviderTimeout   time.Duration
	LLMProvider       string
	LLMModel          string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	GeminiAPIKey      string
	AnthropicAPIKey   string
	FallbackMode      string
	FallbackURL       string
	FallbackToken     string
	FallbackTimeout   time.Duration
}

// Load reads configuration from the environment, after a best-effort load of
// local env files.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("AI_MONTHLY_FREE_CALLS", 20)
	v.SetDefault("AI_QUOTA_WINDOW", "720h")
	v.SetDefault("AI_SERIALIZE_PER_USER", false)
	v.SetDefault("RATE_LIMIT_AI_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT_AI_BURST", 5)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("RATE_LIMIT_BURST", 30)
	v.SetDefault("JOB_PARSE_CACHE", true)
	v.SetDefault("PROVIDER_TIMEOUT", "20s")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("FALLBACK_MODE", "echo")
	v.SetDefault("FALLBACK_TIMEOUT", "10s")
	return v
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := v.GetString("DATABASE_URL")
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	cfg := Config{
		Env:               env,
		Port:              v.GetString("PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		DatabaseURL:       dbURL,
		ObjectStoreType:   normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:     v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:         v.GetString("AWS_REGION"),
		S3Bucket:          v.GetString("S3_BUCKET"),
		S3Prefix:          v.GetString("S3_PREFIX"),
		MonthlyFreeCalls:  v.GetInt("AI_MONTHLY_FREE_CALLS"),
		QuotaWindow:       v.GetDuration("AI_QUOTA_WINDOW"),
		SerializePerUser:  v.GetBool("AI_SERIALIZE_PER_USER"),
		RateLimitAIPerMin: v.GetFloat64("RATE_LIMIT_AI_PER_MINUTE"),
		RateLimitAIBurst:  v.GetInt("RATE_LIMIT_AI_BURST"),
		RateLimitPerMin:   v.GetFloat64("RATE_LIMIT_PER_MINUTE"),
		RateLimitBurst:    v.GetInt("RATE_LIMIT_BURST"),
		ParseCacheEnabled: v.GetBool("JOB_PARSE_CACHE"),
		ProviderTimeout:   v.GetDuration("PROVIDER_TIMEOUT"),
		LLMProvider:       normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModel:          strings.TrimSpace(v.GetString("LLM_MODEL")),
		OpenAIAPIKey:      strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIBaseURL:     strings.TrimRight(v.GetString("OPENAI_BASE_URL"), "/"),
		GeminiAPIKey:      strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		AnthropicAPIKey:   strings.TrimSpace(v.GetString("ANTHROPIC_API_KEY")),
		FallbackMode:      normalizeFallbackMode(v.GetString("FALLBACK_MODE")),
		FallbackURL:       strings.TrimSpace(v.GetString("FALLBACK_URL")),
		FallbackToken:     strings.TrimSpace(v.GetString("FALLBACK_TOKEN")),
		FallbackTimeout:   v.GetDuration("FALLBACK_TIMEOUT"),
	}
	if cfg.MonthlyFreeCalls < 0 {
		cfg.MonthlyFreeCalls = 0
	}
	if cfg.QuotaWindow <= 0 {
		cfg.QuotaWindow = 30 * 24 * time.Hour
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 20 * time.Second
	}
	if cfg.FallbackTimeout <= 0 {
		cfg.FallbackTimeout = 10 * time.Second
	}
	return cfg
}

func loadEnvFiles(paths ...string) {
	for _, p := range paths {
		// godotenv.Load never overrides variables already set.
		_ = godotenv.Load(p)
	}
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	case "anthropic", "claude":
		return "anthropic"
	case "none", "off", "":
		return "none"
	default:
		return "openai"
	}
}

func normalizeFallbackMode(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "http") {
		return "http"
	}
	return "echo"
}
