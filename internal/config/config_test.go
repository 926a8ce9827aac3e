package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/davidbz/glimpse/internal/config"
	"github.com/davidbz/glimpse/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, "127.0.0.1", cfg.Server.Host)
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30, cfg.Server.ReadTimeout)
		require.Equal(t, 300, cfg.Server.WriteTimeout)
		require.Equal(t, "info", cfg.Log.Level)
		require.Equal(t, "memory", cfg.ModelCache.Backend)
		require.Equal(t, 12*time.Hour, cfg.ModelCache.TTL)

		require.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
		require.Equal(t, 1000, cfg.OpenAI.MaxTokens)
		require.InDelta(t, 0.7, cfg.OpenAI.Temperature, 0.0001)
		require.Equal(t, 60, cfg.OpenAI.Timeout)
		require.Empty(t, cfg.OpenAI.APIKey)

		require.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Gemini.BaseURL)
		require.Equal(t, domain.DefaultTokenBudget(), cfg.Gemini.Budget)
		require.Equal(t, "2023-06-01", cfg.Anthropic.Version)
		require.Equal(t, domain.DefaultTokenBudget(), cfg.Anthropic.Budget)
		require.Equal(t, "https://api.perplexity.ai", cfg.Perplexity.BaseURL)
		require.Equal(t, 1000, cfg.Perplexity.MaxTokens)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("SERVER_WRITE_TIMEOUT", "60")
		t.Setenv("OPENAI_API_KEY", "sk-test-key")
		t.Setenv("OPENAI_MODEL", "gpt-4o")
		t.Setenv("GEMINI_IMAGE_PER_IMAGE_BONUS", "1024")
		t.Setenv("GEMINI_MAX_OUTPUT_TOKENS_CEILING", "8192")
		t.Setenv("ANTHROPIC_API_KEY", "a-key")
		t.Setenv("PERPLEXITY_PREFERRED_TIER", "free")
		t.Setenv("MODEL_CACHE_BACKEND", "redis")
		t.Setenv("MODEL_CACHE_TTL", "30m")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, 60, cfg.Server.WriteTimeout)
		require.Equal(t, "sk-test-key", cfg.OpenAI.APIKey)
		require.Equal(t, "gpt-4o", cfg.OpenAI.Model)
		require.Equal(t, 1024, cfg.Gemini.Budget.PerImageBonus)
		require.Equal(t, 8192, cfg.Gemini.Budget.Ceiling)
		require.Equal(t, 512, cfg.Anthropic.Budget.PerImageBonus)
		require.Equal(t, domain.TierFree, cfg.Perplexity.PreferredTier)
		require.Equal(t, "redis", cfg.ModelCache.Backend)
		require.Equal(t, 30*time.Minute, cfg.ModelCache.TTL)
	})
}

func TestAPIKeys(t *testing.T) {
	t.Run("should serve configured keys per vendor", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.OpenAI.APIKey = "sk"
		cfg.Perplexity.APIKey = "pplx"

		keys := config.NewAPIKeys(cfg)

		require.Equal(t, "sk", keys.APIKey(domain.VendorOpenAI))
		require.Equal(t, "pplx", keys.APIKey(domain.VendorPerplexity))
		require.Empty(t, keys.APIKey(domain.VendorGemini))
		require.Empty(t, keys.APIKey("unknown"))
	})

	t.Run("should expose keys through dependency config", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Anthropic.APIKey = "a"

		deps := config.ParseDependenciesConfig(cfg)

		require.Equal(t, "a", deps.Keys.APIKey(domain.VendorAnthropic))
		require.Same(t, &cfg.Server, deps.Server)
	})
}
