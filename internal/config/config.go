package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/modelcache"
	"github.com/davidbz/glimpse/internal/observability"
	"github.com/davidbz/glimpse/internal/provider/anthropic"
	"github.com/davidbz/glimpse/internal/provider/gemini"
	"github.com/davidbz/glimpse/internal/provider/openai"
	"github.com/davidbz/glimpse/internal/provider/perplexity"
)

// Config represents the assistant configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Log        observability.LogConfig
	ModelCache modelcache.Config
	OpenAI     openai.Config
	Gemini     gemini.Config
	Anthropic  anthropic.Config
	Perplexity perplexity.Config
}

// ServerConfig contains HTTP bridge settings. Timeouts are in seconds; the
// write timeout must outlast the longest answer stream.
type ServerConfig struct {
	Host            string `env:"SERVER_HOST"             envDefault:"127.0.0.1"`
	Port            int    `env:"SERVER_PORT"             envDefault:"8080"`
	ReadTimeout     int    `env:"SERVER_READ_TIMEOUT"     envDefault:"30"`
	WriteTimeout    int    `env:"SERVER_WRITE_TIMEOUT"    envDefault:"300"`
	ShutdownTimeout int    `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization,X-Vendor-Key,X-Request-ID"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server     *ServerConfig
	CORS       *CORSConfig
	Log        *observability.LogConfig
	ModelCache *modelcache.Config
	OpenAI     *openai.Config
	Gemini     *gemini.Config
	Anthropic  *anthropic.Config
	Perplexity *perplexity.Config
	Keys       domain.KeyStore
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Server:     &cfg.Server,
		CORS:       &cfg.CORS,
		Log:        &cfg.Log,
		ModelCache: &cfg.ModelCache,
		OpenAI:     &cfg.OpenAI,
		Gemini:     &cfg.Gemini,
		Anthropic:  &cfg.Anthropic,
		Perplexity: &cfg.Perplexity,
		Keys:       NewAPIKeys(cfg),
	}
}

// APIKeys serves the API keys stored in configuration.
type APIKeys map[domain.VendorID]string

// NewAPIKeys collects the configured key of every vendor.
func NewAPIKeys(cfg *Config) APIKeys {
	return APIKeys{
		domain.VendorOpenAI:     cfg.OpenAI.APIKey,
		domain.VendorGemini:     cfg.Gemini.APIKey,
		domain.VendorAnthropic:  cfg.Anthropic.APIKey,
		domain.VendorPerplexity: cfg.Perplexity.APIKey,
	}
}

// APIKey returns the stored key for vendor, or "".
func (k APIKeys) APIKey(vendor domain.VendorID) string {
	return k[vendor]
}
