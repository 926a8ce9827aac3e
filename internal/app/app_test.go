package app_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/glimpse/internal/app"
	"github.com/davidbz/glimpse/internal/config"
	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/httpserver"
)

func setenv(t *testing.T, overrides map[string]string) {
	t.Helper()
	base := map[string]string{
		"LOG_LEVEL":            "error",
		"MODEL_CACHE_BACKEND":  "memory",
		"OPENAI_API_KEY":       "",
		"GEMINI_API_KEY":       "",
		"ANTHROPIC_API_KEY":    "",
		"PERPLEXITY_API_KEY":   "",
		"SERVER_HOST":          "127.0.0.1",
		"SERVER_PORT":          "9099",
		"CORS_ALLOWED_ORIGINS": "*",
	}
	for k, v := range overrides {
		base[k] = v
	}
	for k, v := range base {
		t.Setenv(k, v)
	}
}

func TestNewContainer(t *testing.T) {
	t.Run("should register every vendor in display order", func(t *testing.T) {
		setenv(t, nil)

		container, err := app.NewContainer(config.Load)
		require.NoError(t, err)

		err = container.Invoke(func(assistant *domain.AssistantService) {
			vendors := assistant.Vendors(context.Background())
			require.Len(t, vendors, 4)
			require.Equal(t, domain.VendorOpenAI, vendors[0].ID)
			require.Equal(t, domain.VendorPerplexity, vendors[3].ID)
		})
		require.NoError(t, err)
	})

	t.Run("should surface a missing key per request", func(t *testing.T) {
		setenv(t, nil)

		container, err := app.NewContainer(config.Load)
		require.NoError(t, err)

		err = container.Invoke(func(assistant *domain.AssistantService) {
			_, askErr := assistant.Ask(context.Background(), &domain.AskRequest{
				Vendor: domain.VendorGemini,
				Query:  "hello",
			}, domain.StreamCallbacks{})
			require.ErrorIs(t, askErr, domain.ErrMissingAPIKey)
		})
		require.NoError(t, err)
	})

	t.Run("should build the bridge server from config", func(t *testing.T) {
		setenv(t, nil)

		container, err := app.NewContainer(config.Load)
		require.NoError(t, err)

		err = container.Invoke(func(server *httpserver.Server) {
			require.Equal(t, "127.0.0.1:9099", server.Addr())
		})
		require.NoError(t, err)
	})

	t.Run("should share the model cache through redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		setenv(t, map[string]string{
			"MODEL_CACHE_BACKEND":    "redis",
			"REDIS_ADDR":             mr.Addr(),
			"MODEL_CACHE_KEY_PREFIX": "test:",
		})

		container, err := app.NewContainer(config.Load)
		require.NoError(t, err)

		err = container.Invoke(func(cache domain.ModelCache, reg domain.ProviderRegistry) {
			ctx := context.Background()
			cache.Set(ctx, domain.VendorPerplexity, "sonar-pro")

			r, lookupErr := reg.Resolver(ctx, domain.VendorPerplexity)
			require.NoError(t, lookupErr)
			require.Equal(t, "sonar-pro", r.Resolve(ctx, "", domain.ResolveOptions{}))
		})
		require.NoError(t, err)
		require.NotEmpty(t, mr.Keys())
	})

	t.Run("should fail on an unknown cache backend", func(t *testing.T) {
		setenv(t, map[string]string{"MODEL_CACHE_BACKEND": "etcd"})

		container, err := app.NewContainer(config.Load)
		require.NoError(t, err)

		err = container.Invoke(func(domain.ModelCache) {})
		require.Error(t, err)
	})
}
