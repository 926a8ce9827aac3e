package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/davidbz/glimpse/internal/domain"
)

// GeminiBaseURL is the public Generative Language API root.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

//nolint:gochecknoglobals // static ranking table
var geminiFamilies = []struct {
	marker string
	score  float64
}{
	{"2.5-pro", 5},
	{"2.5-flash", 4},
	{"2.0-pro", 3.5},
	{"2.0-flash", 3},
	{"1.5-pro", 2},
	{"1.5-flash", 1.5},
	{"1.0-pro", 1},
	{"flash", 0.5},
}

// GeminiFallbacks are tried in order when discovery yields nothing.
//
//nolint:gochecknoglobals // static fallback list
var GeminiFallbacks = []string{
	"models/gemini-2.5-flash",
	"models/gemini-2.0-flash",
	"models/gemini-flash-latest",
	"models/gemini-1.5-flash-latest",
}

// NormalizeGeminiModel prefixes bare names with "models/".
func NormalizeGeminiModel(name string) string {
	if strings.HasPrefix(name, "models/") {
		return name
	}
	return "models/" + name
}

// NewGemini creates the Gemini resolver.
func NewGemini(cache domain.ModelCache, cfg DiscoveryConfig) *Resolver {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = GeminiBaseURL
	}
	client := cfg.client()

	return New(Strategy{
		Vendor: domain.VendorGemini,
		Discover: func(ctx context.Context, apiKey string) ([]domain.ModelInfo, error) {
			body, err := fetch(ctx, client, fmt.Sprintf("%s/models?key=%s", base, url.QueryEscape(apiKey)), nil)
			if err != nil {
				return nil, err
			}
			return parseGeminiModels(body), nil
		},
		Score:     ScoreGeminiModel,
		Fallbacks: GeminiFallbacks,
		Normalize: NormalizeGeminiModel,
	}, cache)
}

// ScoreGeminiModel prefers newer versions, then pro over flash.
func ScoreGeminiModel(model domain.ModelInfo, _ domain.ResolveOptions) float64 {
	name := strings.ToLower(model.Name)
	for _, family := range geminiFamilies {
		if strings.Contains(name, family.marker) {
			return family.score
		}
	}
	return 0
}

func parseGeminiModels(body []byte) []domain.ModelInfo {
	var models []domain.ModelInfo

	gjson.GetBytes(body, "models").ForEach(func(_, entry gjson.Result) bool {
		name := entry.Get("name").String()
		if name == "" {
			return true
		}

		var generate, stream bool
		for _, method := range entry.Get("supportedGenerationMethods").Array() {
			switch method.String() {
			case "generateContent":
				generate = true
			case "streamGenerateContent":
				stream = true
			}
		}
		if !generate && !stream {
			return true
		}

		label := entry.Get("displayName").String()
		if label == "" {
			label = name
		}

		tier := domain.TierPaid
		if strings.Contains(name, "flash") {
			tier = domain.TierFree
		}

		models = append(models, domain.ModelInfo{
			Name:  name,
			Label: label,
			Tier:  tier,
			Capabilities: domain.ModelCapabilities{
				Text:            true,
				Streaming:       stream,
				Images:          strings.Contains(name, "gemini"),
				MaxOutputTokens: int(entry.Get("outputTokenLimit").Int()),
			},
		})
		return true
	})

	return models
}
