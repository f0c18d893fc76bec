package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5.0, cfg.BankMargin)
	assert.Equal(t, int64(1000), cfg.CacheMaxEntries)
	assert.Equal(t, 100, cfg.RateLimitBurst)
	assert.Equal(t, "gemma:2b", cfg.OllamaModel)
	assert.Equal(t, 30, cfg.Forecast.DefaultHorizon)
	assert.Zero(t, cfg.Forecast.MaxDailyRate)
	assert.True(t, cfg.NarrativeEnabled)
	assert.False(t, cfg.AlertsEnabled())
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("FORECAST_MAX_DAILY_RATE", "0.02")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("ALERT_EMAIL", "risk@example.com")
	t.Setenv("CACHE_MAX_ENTRIES", "not-a-number")
	t.Setenv("NARRATIVE_ENABLED", "false")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 0.02, cfg.Forecast.MaxDailyRate)
	assert.Equal(t, int64(1000), cfg.CacheMaxEntries)
	assert.False(t, cfg.NarrativeEnabled)
	assert.True(t, cfg.AlertsEnabled())
}

func TestForecastConfig_Params(t *testing.T) {
	p := ForecastConfig{DecayRate: 0.01, MinConfidence: 0.3, MaxDailyRate: 0.05, BoostRounds: 20, MaxHorizon: 366}.Params()

	assert.Equal(t, 0.01, p.DecayRate)
	assert.Equal(t, 0.3, p.MinConfidence)
	assert.Equal(t, 0.05, p.MaxDailyRate)
	assert.Equal(t, 366, p.MaxHorizon)
	assert.Equal(t, 20, p.Inflow.Rounds)
	assert.Equal(t, 20, p.Outflow.Rounds)
	assert.Equal(t, 0.1, p.Inflow.LearningRate)
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"DB_CONN":                  "",
		"JWT_SECRET":               "",
		"RATE_LIMIT_BURST":         "0",
		"FORECAST_DEFAULT_HORIZON": "400",
		"FORECAST_MIN_CONFIDENCE":  "1.5",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}
