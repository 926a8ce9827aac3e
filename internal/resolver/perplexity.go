package resolver

import (
	"context"

	"github.com/davidbz/glimpse/internal/domain"
)

// NewPerplexity creates the Perplexity resolver. Perplexity has no reliable
// model listing, so discovery ranks the static catalog of the vendor metadata.
func NewPerplexity(cache domain.ModelCache) *Resolver {
	meta, _ := domain.Metadata(domain.VendorPerplexity)

	return New(Strategy{
		Vendor: domain.VendorPerplexity,
		Discover: func(context.Context, string) ([]domain.ModelInfo, error) {
			return meta.ModelCatalog, nil
		},
		Score:     ScorePerplexityModel,
		Fallbacks: []string{meta.DefaultModel},
	}, cache)
}

// ScorePerplexityModel favours the preferred tier (paid when none is given),
// then streaming, image support and output limit.
func ScorePerplexityModel(model domain.ModelInfo, opts domain.ResolveOptions) float64 {
	var tierScore float64
	switch {
	case opts.PreferredTier != "" && model.Tier == opts.PreferredTier:
		tierScore = 3
	case opts.PreferredTier != "":
		tierScore = 1
	case model.Tier == domain.TierPaid:
		tierScore = 2
	default:
		tierScore = 1
	}

	caps := model.Capabilities
	var capabilityScore float64
	if caps.Streaming {
		capabilityScore += 2
	}
	if caps.Images {
		capabilityScore++
	}
	if caps.Audio {
		capabilityScore++
	}
	if caps.MaxOutputTokens > 0 {
		capabilityScore += float64(caps.MaxOutputTokens) / 10000
	}

	return tierScore + capabilityScore
}
