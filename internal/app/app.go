// Package app wires the components shared by the bridge and the CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/glimpse/internal/config"
	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/httpserver"
	"github.com/davidbz/glimpse/internal/httpserver/middleware"
	"github.com/davidbz/glimpse/internal/modelcache"
	"github.com/davidbz/glimpse/internal/observability"
	"github.com/davidbz/glimpse/internal/provider/anthropic"
	"github.com/davidbz/glimpse/internal/provider/gemini"
	"github.com/davidbz/glimpse/internal/provider/openai"
	"github.com/davidbz/glimpse/internal/provider/perplexity"
	"github.com/davidbz/glimpse/internal/provider/registry"
	"github.com/davidbz/glimpse/internal/resolver"
)

// RegistryParams are the dependencies of NewRegistry.
type RegistryParams struct {
	dig.In

	Cache      domain.ModelCache
	OpenAI     *openai.Config
	Gemini     *gemini.Config
	Anthropic  *anthropic.Config
	Perplexity *perplexity.Config
}

// NewContainer builds the container from a config constructor.
// Binaries pass config.Load; tests pass a fixed config.
func NewContainer(loadConfig func() *config.Config) (*dig.Container, error) {
	container := dig.New()

	constructors := []struct {
		name        string
		constructor any
	}{
		{"config", loadConfig},
		{"config dependencies", config.ParseDependenciesConfig},
		{"logger", observability.InitLogger},
		{"model store", modelcache.NewStore},
		{"model cache", modelcache.NewFromConfig},
		{"model cache port", func(cache *modelcache.Cache) domain.ModelCache { return cache }},
		{"registry", NewRegistry},
		{"registry port", func(reg *registry.Registry) domain.ProviderRegistry { return reg }},
		{"session store", domain.NewSessionStore},
		{"assistant service", domain.NewAssistantService},
		{"HTTP handler", httpserver.NewHandler},
		{"middleware chain", middleware.BuildMiddlewareChain},
		{"HTTP server", httpserver.NewServer},
	}

	for _, c := range constructors {
		if err := container.Provide(c.constructor); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", c.name, err)
		}
	}

	// The logger must be global before any component logs.
	if err := container.Invoke(func(*zap.Logger) {}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return container, nil
}

// NewRegistry registers every vendor with its resolver and provider factory.
func NewRegistry(p RegistryParams) (*registry.Registry, error) {
	ctx := context.Background()
	reg := registry.NewRegistry()

	entries := []struct {
		resolver domain.ModelResolver
		factory  registry.Factory
	}{
		{
			resolver: resolver.NewOpenAI(p.Cache, resolver.DiscoveryConfig{BaseURL: p.OpenAI.BaseURL}),
			factory: func(apiKey string, r domain.ModelResolver) domain.VendorProvider {
				return openai.NewProvider(*p.OpenAI, apiKey, r)
			},
		},
		{
			resolver: resolver.NewGemini(p.Cache, resolver.DiscoveryConfig{BaseURL: p.Gemini.BaseURL}),
			factory: func(apiKey string, r domain.ModelResolver) domain.VendorProvider {
				return gemini.NewProvider(*p.Gemini, apiKey, r)
			},
		},
		{
			resolver: resolver.NewAnthropic(p.Cache, resolver.AnthropicDiscoveryConfig{
				DiscoveryConfig: resolver.DiscoveryConfig{BaseURL: p.Anthropic.BaseURL},
				Version:         p.Anthropic.Version,
			}),
			factory: func(apiKey string, r domain.ModelResolver) domain.VendorProvider {
				return anthropic.NewProvider(*p.Anthropic, apiKey, r)
			},
		},
		{
			resolver: resolver.NewPerplexity(p.Cache),
			factory: func(apiKey string, r domain.ModelResolver) domain.VendorProvider {
				return perplexity.NewProvider(*p.Perplexity, apiKey, r)
			},
		},
	}

	for _, e := range entries {
		if err := reg.Register(ctx, e.resolver, e.factory); err != nil {
			return nil, fmt.Errorf("failed to register vendor: %w", err)
		}
	}

	return reg, nil
}
