package domain

import "time"

// VendorID identifies one of the supported LLM vendors.
type VendorID string

const (
	VendorOpenAI     VendorID = "openai"
	VendorGemini     VendorID = "gemini"
	VendorAnthropic  VendorID = "anthropic"
	VendorPerplexity VendorID = "perplexity"
)

// Role is the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage builds a user message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage builds an assistant message.
func AssistantMessage(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// Tier is the pricing tier a model belongs to.
type Tier string

const (
	TierFree Tier = "free"
	TierPaid Tier = "paid"
)

// ModelCapabilities describes what a model can do. MaxOutputTokens is zero when unknown.
type ModelCapabilities struct {
	Text            bool `json:"text"`
	Streaming       bool `json:"streaming"`
	Images          bool `json:"images,omitempty"`
	Audio           bool `json:"audio,omitempty"`
	MaxOutputTokens int  `json:"maxOutputTokens,omitempty"`
}

// ModelInfo is one candidate model as advertised by discovery or a static catalog.
type ModelInfo struct {
	Name         string            `json:"name"`
	Label        string            `json:"label"`
	Tier         Tier              `json:"tier"`
	Capabilities ModelCapabilities `json:"capabilities"`
}

// Satisfies reports whether the model offers every required capability.
// Flags that are false in required are not checked. A required token count is
// only enforced when the model reports one.
func (c ModelCapabilities) Satisfies(required ModelCapabilities) bool {
	if required.Text && !c.Text {
		return false
	}
	if required.Streaming && !c.Streaming {
		return false
	}
	if required.Images && !c.Images {
		return false
	}
	if required.Audio && !c.Audio {
		return false
	}
	if required.MaxOutputTokens > 0 && c.MaxOutputTokens > 0 && c.MaxOutputTokens < required.MaxOutputTokens {
		return false
	}
	return true
}

// ResolveOptions controls model resolution.
type ResolveOptions struct {
	RequestedModel       string
	RequiredCapabilities ModelCapabilities
	ExcludeModels        []string
	PreferredTier        Tier
}

// CachedModel is the persisted model choice for one vendor.
type CachedModel struct {
	Model     string `json:"model"`
	Timestamp int64  `json:"timestamp"`
}

// CachedAt returns the entry timestamp as a time.
func (c CachedModel) CachedAt() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// AudioSummaryParams is the input to a meeting summary stream.
type AudioSummaryParams struct {
	Transcript string
	Callbacks  StreamCallbacks
}

// StreamChunk represents a single frame sent to bridge clients.
type StreamChunk struct {
	Delta string `json:"delta,omitempty"`
	Done  bool   `json:"done,omitempty"`
	Text  string `json:"text,omitempty"`
}
