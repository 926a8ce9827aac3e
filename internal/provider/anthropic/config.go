package anthropic

import "github.com/davidbz/glimpse/internal/domain"

// Config contains Anthropic provider configuration.
type Config struct {
	APIKey  string `env:"ANTHROPIC_API_KEY"`
	BaseURL string `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com"`
	Version string `env:"ANTHROPIC_VERSION"  envDefault:"2023-06-01"`
	Model   string `env:"ANTHROPIC_MODEL"`
	Timeout int    `env:"ANTHROPIC_TIMEOUT"  envDefault:"60"`

	Budget domain.TokenBudget `envPrefix:"ANTHROPIC_"`
}
