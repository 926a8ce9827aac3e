package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/glimpse/internal/domain"
)

// OpenAIBaseURL is the public API root.
const OpenAIBaseURL = "https://api.openai.com/v1"

//nolint:gochecknoglobals // static ranking table
var openAIFamilies = []struct {
	marker string
	score  float64
	images bool
}{
	{"gpt-4.1-nano", 6, true},
	{"gpt-4.1-mini", 9, true},
	{"gpt-4.1", 11, true},
	{"gpt-4o-mini", 8, true},
	{"gpt-4o", 10, true},
	{"gpt-4-turbo", 7, true},
	{"gpt-4", 5, false},
	{"gpt-3.5-turbo", 3, false},
}

// Chat models that cannot serve a streaming chat completion with max_tokens.
//
//nolint:gochecknoglobals // static filter
var openAIExcludedMarkers = []string{
	"audio", "realtime", "tts", "transcribe", "search", "instruct",
	"embedding", "image", "moderation", "gpt-5",
}

// OpenAIFallbacks are tried in order when discovery yields nothing.
//
//nolint:gochecknoglobals // static fallback list
var OpenAIFallbacks = []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo"}

// NewOpenAI creates the OpenAI resolver. Discovery goes through the SDK's
// model listing.
func NewOpenAI(cache domain.ModelCache, cfg DiscoveryConfig) *Resolver {
	base := cfg.BaseURL
	if base == "" {
		base = OpenAIBaseURL
	}
	client := cfg.client()

	return New(Strategy{
		Vendor: domain.VendorOpenAI,
		Discover: func(ctx context.Context, apiKey string) ([]domain.ModelInfo, error) {
			sdk := openai.NewClient(
				option.WithAPIKey(apiKey),
				option.WithBaseURL(base),
				option.WithHTTPClient(client),
				option.WithMaxRetries(0),
			)

			var models []domain.ModelInfo
			iter := sdk.Models.ListAutoPaging(ctx)
			for iter.Next() {
				if info, ok := openAIModelInfo(iter.Current().ID); ok {
					models = append(models, info)
				}
			}
			if err := iter.Err(); err != nil {
				return nil, fmt.Errorf("failed to list models: %w", err)
			}
			return models, nil
		},
		Score:     ScoreOpenAIModel,
		Fallbacks: OpenAIFallbacks,
	}, cache)
}

// ScoreOpenAIModel prefers newer and larger chat families.
func ScoreOpenAIModel(model domain.ModelInfo, _ domain.ResolveOptions) float64 {
	name := strings.ToLower(model.Name)
	for _, family := range openAIFamilies {
		if strings.HasPrefix(name, family.marker) {
			return family.score + float64(model.Capabilities.MaxOutputTokens)/1000
		}
	}
	return 1
}

func openAIModelInfo(id string) (domain.ModelInfo, bool) {
	name := strings.ToLower(id)
	if !strings.HasPrefix(name, "gpt-") {
		return domain.ModelInfo{}, false
	}
	for _, marker := range openAIExcludedMarkers {
		if strings.Contains(name, marker) {
			return domain.ModelInfo{}, false
		}
	}

	images := false
	for _, family := range openAIFamilies {
		if strings.HasPrefix(name, family.marker) {
			images = family.images
			break
		}
	}

	tier := domain.TierPaid
	if strings.Contains(name, "mini") || strings.Contains(name, "nano") {
		tier = domain.TierFree
	}

	return domain.ModelInfo{
		Name:  id,
		Label: id,
		Tier:  tier,
		Capabilities: domain.ModelCapabilities{
			Text:      true,
			Streaming: true,
			Images:    images,
		},
	}, true
}
