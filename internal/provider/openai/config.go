package openai

// Config contains OpenAI provider configuration.
// All fields map to OpenAI SDK options or request parameters:
//   - APIKey: stored key, used when a request carries none
//   - BaseURL: Maps to option.WithBaseURL()
//   - Model: starting model; empty means the catalog default
//   - Timeout: bounds the wait for response headers (in seconds)
type Config struct {
	APIKey      string  `env:"OPENAI_API_KEY"`
	BaseURL     string  `env:"OPENAI_BASE_URL"    envDefault:"https://api.openai.com/v1"`
	Model       string  `env:"OPENAI_MODEL"`
	MaxTokens   int     `env:"OPENAI_MAX_TOKENS"  envDefault:"1000"`
	Temperature float64 `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	Timeout     int     `env:"OPENAI_TIMEOUT"     envDefault:"60"`
}
