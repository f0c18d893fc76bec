package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Dan9191/cashflow-service/internal/forecast"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	JWTSecret string
	JWTTTL    time.Duration

	CBRURL     string
	BankMargin float64

	BenchmarksFile string

	CacheTTL        time.Duration
	CacheMaxEntries int64

	RateLimitRPS   float64
	RateLimitBurst int
	RateLimitIdle  time.Duration

	NarrativeEnabled bool
	OllamaBaseURL    string
	OllamaModel      string
	AnthropicAPIKey  string
	AnthropicModel   string
	NarrativeTimeout time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	AlertEmail   string

	Forecast ForecastConfig
}

// ForecastConfig tunes the forecasting engine
type ForecastConfig struct {
	DefaultHorizon int
	MaxHorizon     int
	DecayRate      float64
	MinConfidence  float64
	MaxDailyRate   float64
	BoostRounds    int
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DBConn:   getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=cashflow sslmode=disable"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		JWTSecret: getEnv("JWT_SECRET", "secret"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		CBRURL:     getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		BankMargin: getEnvFloat("BANK_MARGIN", 5.0),

		BenchmarksFile: getEnv("BENCHMARKS_FILE", ""),

		CacheTTL:        getEnvDuration("CACHE_TTL", time.Hour),
		CacheMaxEntries: int64(getEnvInt("CACHE_MAX_ENTRIES", 1000)),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 100.0/60.0),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 100),
		RateLimitIdle:  getEnvDuration("RATE_LIMIT_IDLE", 10*time.Minute),

		NarrativeEnabled: getEnvBool("NARRATIVE_ENABLED", true),
		OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:      getEnv("OLLAMA_MODEL", "gemma:2b"),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		NarrativeTimeout: getEnvDuration("NARRATIVE_TIMEOUT", 30*time.Second),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "noreply@cashflow.local"),
		AlertEmail:   getEnv("ALERT_EMAIL", ""),

		Forecast: ForecastConfig{
			DefaultHorizon: getEnvInt("FORECAST_DEFAULT_HORIZON", 30),
			MaxHorizon:     getEnvInt("FORECAST_MAX_HORIZON", 366),
			DecayRate:      getEnvFloat("FORECAST_DECAY_RATE", 0.003),
			MinConfidence:  getEnvFloat("FORECAST_MIN_CONFIDENCE", 0.4),
			MaxDailyRate:   getEnvFloat("FORECAST_MAX_DAILY_RATE", 0),
			BoostRounds:    getEnvInt("FORECAST_BOOST_ROUNDS", 100),
		},
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if cfg.Forecast.DefaultHorizon < 1 || cfg.Forecast.DefaultHorizon > cfg.Forecast.MaxHorizon {
		return nil, fmt.Errorf("FORECAST_DEFAULT_HORIZON must be within 1..FORECAST_MAX_HORIZON")
	}
	if cfg.Forecast.MinConfidence < 0 || cfg.Forecast.MinConfidence > 1 {
		return nil, fmt.Errorf("FORECAST_MIN_CONFIDENCE must be within 0..1")
	}

	return cfg, nil
}

// Params overlays the configured tuning on the engine defaults
func (f ForecastConfig) Params() forecast.Params {
	p := forecast.DefaultParams()
	p.DecayRate = f.DecayRate
	p.MinConfidence = f.MinConfidence
	p.MaxDailyRate = f.MaxDailyRate
	if f.MaxHorizon > 0 {
		p.MaxHorizon = f.MaxHorizon
	}
	p.Inflow.Rounds = f.BoostRounds
	p.Outflow.Rounds = f.BoostRounds
	return p
}

// AlertsEnabled reports whether SMTP is configured for risk alerts
func (c *Config) AlertsEnabled() bool {
	return c.SMTPHost != "" && c.AlertEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return defaultVal
}
