package domain

// VendorMetadata describes a vendor's capabilities and default model.
type VendorMetadata struct {
	ID                    VendorID    `json:"id"`
	Label                 string      `json:"label"`
	Description           string      `json:"description"`
	SupportsImages        bool        `json:"supportsImages"`
	SupportsMeetingsAudio bool        `json:"supportsMeetingsAudio"`
	SupportsAudioRecorder bool        `json:"supportsAudioRecorder"`
	DefaultModel          string      `json:"defaultModel"`
	ModelCatalog          []ModelInfo `json:"modelCatalog,omitempty"`
}

//nolint:gochecknoglobals // static catalog, never mutated
var vendorIDs = []VendorID{VendorOpenAI, VendorGemini, VendorAnthropic, VendorPerplexity}

//nolint:gochecknoglobals // static catalog, never mutated
var vendorMetadata = map[VendorID]VendorMetadata{
	VendorOpenAI: {
		ID:                    VendorOpenAI,
		Label:                 "OpenAI (ChatGPT)",
		Description:           "OpenAI GPT models with multimodal support. Fastest with GPT-4o-mini.",
		SupportsImages:        true,
		SupportsMeetingsAudio: true,
		SupportsAudioRecorder: true,
		DefaultModel:          "gpt-4o-mini",
	},
	VendorGemini: {
		ID:             VendorGemini,
		Label:          "Google Gemini",
		Description:    "Google Gemini multimodal models with high-quality reasoning.",
		SupportsImages: true,
		DefaultModel:   "gemini-2.5-flash",
	},
	VendorAnthropic: {
		ID:             VendorAnthropic,
		Label:          "Claude (Anthropic)",
		Description:    "Claude 3 family with fast and reliable text generation.",
		SupportsImages: true,
		DefaultModel:   "claude-3-5-sonnet-20240620",
	},
	VendorPerplexity: {
		ID:             VendorPerplexity,
		Label:          "Perplexity",
		Description:    "Perplexity conversational search with web-grounded answers.",
		SupportsImages: true,
		DefaultModel:   "sonar",
		ModelCatalog: []ModelInfo{
			{
				Name:  "sonar-pro",
				Label: "Sonar Pro",
				Tier:  TierPaid,
				Capabilities: ModelCapabilities{
					Text: true, Streaming: true, Images: true, MaxOutputTokens: 8000,
				},
			},
			{
				Name:  "sonar",
				Label: "Sonar",
				Tier:  TierFree,
				Capabilities: ModelCapabilities{
					Text: true, Streaming: true, Images: true, MaxOutputTokens: 6000,
				},
			},
			{
				Name:  "sonar-reasoning-pro",
				Label: "Sonar Reasoning Pro",
				Tier:  TierPaid,
				Capabilities: ModelCapabilities{
					Text: true, Streaming: true, Images: true, MaxOutputTokens: 8000,
				},
			},
			{
				Name:  "sonar-reasoning",
				Label: "Sonar Reasoning",
				Tier:  TierPaid,
				Capabilities: ModelCapabilities{
					Text: true, Streaming: true, MaxOutputTokens: 4000,
				},
			},
			{
				Name:  "sonar-deep-research",
				Label: "Sonar Deep Research",
				Tier:  TierPaid,
				Capabilities: ModelCapabilities{
					Text: true, MaxOutputTokens: 20000,
				},
			},
		},
	},
}

// VendorIDs returns the supported vendors in display order.
func VendorIDs() []VendorID {
	out := make([]VendorID, len(vendorIDs))
	copy(out, vendorIDs)
	return out
}

// IsVendorID reports whether id names a supported vendor.
func IsVendorID(id string) bool {
	_, ok := vendorMetadata[VendorID(id)]
	return ok
}

// Metadata returns the static description of a vendor.
func Metadata(id VendorID) (VendorMetadata, bool) {
	meta, ok := vendorMetadata[id]
	if !ok {
		return VendorMetadata{}, false
	}
	meta.ModelCatalog = append([]ModelInfo(nil), meta.ModelCatalog...)
	return meta, true
}

// AllMetadata returns every vendor's metadata in display order.
func AllMetadata() []VendorMetadata {
	out := make([]VendorMetadata, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		meta, _ := Metadata(id)
		out = append(out, meta)
	}
	return out
}
