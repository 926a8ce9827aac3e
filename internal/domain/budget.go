package domain

const (
	defaultMaxOutputTokens      = 1024
	defaultImageBaseTokens      = 2048
	defaultImagePerImageBonus   = 512
	defaultMaxOutputTokensLimit = 4096
)

// TokenBudget sizes the output token budget of a request. Image requests run
// longer, so the budget grows with the number of images up to Ceiling.
type TokenBudget struct {
	Default       int `env:"DEFAULT_MAX_OUTPUT_TOKENS" envDefault:"1024"`
	ImageBase     int `env:"IMAGE_BASE_OUTPUT_TOKENS"  envDefault:"2048"`
	PerImageBonus int `env:"IMAGE_PER_IMAGE_BONUS"     envDefault:"512"`
	Ceiling       int `env:"MAX_OUTPUT_TOKENS_CEILING" envDefault:"4096"`
}

// DefaultTokenBudget returns the stock budget.
func DefaultTokenBudget() TokenBudget {
	return TokenBudget{
		Default:       defaultMaxOutputTokens,
		ImageBase:     defaultImageBaseTokens,
		PerImageBonus: defaultImagePerImageBonus,
		Ceiling:       defaultMaxOutputTokensLimit,
	}
}

// WithDefaults fills zero fields from DefaultTokenBudget.
func (b TokenBudget) WithDefaults() TokenBudget {
	d := DefaultTokenBudget()
	if b.Default <= 0 {
		b.Default = d.Default
	}
	if b.ImageBase <= 0 {
		b.ImageBase = d.ImageBase
	}
	if b.PerImageBonus < 0 {
		b.PerImageBonus = d.PerImageBonus
	}
	if b.Ceiling <= 0 {
		b.Ceiling = d.Ceiling
	}
	return b
}

// ForImages returns min(Ceiling, ImageBase + max(0, n-1)*PerImageBonus), or
// Default when n is zero.
func (b TokenBudget) ForImages(n int) int {
	if n <= 0 {
		return b.Default
	}
	return min(b.Ceiling, b.ImageBase+max(0, n-1)*b.PerImageBonus)
}

// Escalated returns the enlarged budget used for a single retry after a
// request for n images came back truncated or empty.
func (b TokenBudget) Escalated(n int) int {
	return min(b.Ceiling, b.ForImages(n)*2)
}
