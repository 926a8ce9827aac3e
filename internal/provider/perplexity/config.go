package perplexity

import "github.com/davidbz/glimpse/internal/domain"

// Config contains Perplexity provider configuration.
type Config struct {
	APIKey        string      `env:"PERPLEXITY_API_KEY"`
	BaseURL       string      `env:"PERPLEXITY_BASE_URL"       envDefault:"https://api.perplexity.ai"`
	Model         string      `env:"PERPLEXITY_MODEL"`
	MaxTokens     int         `env:"PERPLEXITY_MAX_TOKENS"     envDefault:"1000"`
	PreferredTier domain.Tier `env:"PERPLEXITY_PREFERRED_TIER"`
	Timeout       int         `env:"PERPLEXITY_TIMEOUT"        envDefault:"60"`
}
