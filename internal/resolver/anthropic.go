package resolver

import (
	"context"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/davidbz/glimpse/internal/domain"
)

const (
	// AnthropicBaseURL is the public Messages API root.
	AnthropicBaseURL = "https://api.anthropic.com"

	// AnthropicVersion is sent as the anthropic-version header.
	AnthropicVersion = "2023-06-01"
)

//nolint:gochecknoglobals // static ranking table
var anthropicFamilies = []struct {
	marker string
	score  float64
}{
	{"sonnet-4", 12},
	{"3-7-sonnet", 11},
	{"3-5-sonnet", 10},
	{"3-sonnet", 8},
	{"3-haiku", 5},
}

// AnthropicFallbacks are tried in order when discovery yields nothing.
//
//nolint:gochecknoglobals // static fallback list
var AnthropicFallbacks = []string{
	"claude-3-5-sonnet-latest",
	"claude-3-sonnet-20240229",
	"claude-3-haiku-20240307",
	"claude-3-5-sonnet-20240620",
}

// AnthropicDiscoveryConfig adds the API version header to DiscoveryConfig.
type AnthropicDiscoveryConfig struct {
	DiscoveryConfig
	Version string
}

// NewAnthropic creates the Anthropic resolver.
func NewAnthropic(cache domain.ModelCache, cfg AnthropicDiscoveryConfig) *Resolver {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = AnthropicBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = AnthropicVersion
	}
	client := cfg.client()

	return New(Strategy{
		Vendor: domain.VendorAnthropic,
		Discover: func(ctx context.Context, apiKey string) ([]domain.ModelInfo, error) {
			body, err := fetch(ctx, client, base+"/v1/models", map[string]string{
				"x-api-key":         apiKey,
				"anthropic-version": version,
			})
			if err != nil {
				return nil, err
			}
			return parseAnthropicModels(body), nil
		},
		Score:     ScoreAnthropicModel,
		Fallbacks: AnthropicFallbacks,
	}, cache)
}

// ScoreAnthropicModel prefers newer sonnet variants, image and audio input,
// and larger output limits.
func ScoreAnthropicModel(model domain.ModelInfo, _ domain.ResolveOptions) float64 {
	name := strings.ToLower(model.Name)

	score := 1.0
	for _, family := range anthropicFamilies {
		if strings.Contains(name, family.marker) {
			score = family.score
			break
		}
	}

	caps := model.Capabilities
	if caps.Images {
		score += 2
	}
	if caps.Audio {
		score++
	}
	if caps.MaxOutputTokens > 0 {
		score += float64(caps.MaxOutputTokens) / 1000
	}
	return score
}

func parseAnthropicModels(body []byte) []domain.ModelInfo {
	list := gjson.GetBytes(body, "data")
	if !list.IsArray() {
		list = gjson.GetBytes(body, "models")
	}

	var models []domain.ModelInfo
	list.ForEach(func(_, entry gjson.Result) bool {
		id := entry.Get("id").String()
		if id == "" {
			return true
		}

		input := stringList(entry, "input_modalities", "metadata.input_modalities")
		output := stringList(entry, "output_modalities", "metadata.output_modalities")

		images := slices.Contains(input, "image")
		if len(input) == 0 {
			// The public listing carries no modalities; every claude-3+ model takes images.
			images = strings.HasPrefix(id, "claude-") && !strings.HasPrefix(id, "claude-2") && !strings.Contains(id, "instant")
		}

		maxTokens := entry.Get("max_output_tokens").Int()
		if maxTokens == 0 {
			maxTokens = entry.Get("metadata.max_output_tokens").Int()
		}

		label := entry.Get("display_name").String()
		if label == "" {
			label = id
		}

		tier := domain.TierPaid
		if strings.Contains(id, "haiku") {
			tier = domain.TierFree
		}

		models = append(models, domain.ModelInfo{
			Name:  id,
			Label: label,
			Tier:  tier,
			Capabilities: domain.ModelCapabilities{
				Text:            true,
				Streaming:       true,
				Images:          images,
				Audio:           slices.Contains(input, "audio") || slices.Contains(output, "audio"),
				MaxOutputTokens: int(maxTokens),
			},
		})
		return true
	})

	return models
}

func stringList(entry gjson.Result, paths ...string) []string {
	for _, path := range paths {
		values := entry.Get(path)
		if !values.IsArray() {
			continue
		}
		out := make([]string, 0, len(values.Array()))
		for _, v := range values.Array() {
			out = append(out, strings.ToLower(v.String()))
		}
		return out
	}
	return nil
}
