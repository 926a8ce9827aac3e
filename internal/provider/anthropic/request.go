package anthropic

import (
	"strings"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/imagedata"
)

const (
	imageQuestionSuffix = "Please answer the question above using every image provided."
	imageOnlyPrompt     = "Please analyze every image provided in this message."
)

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type contentPart struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
	Stream    bool      `json:"stream,omitempty"`
}

// buildRequest converts messages to a Messages API body. System messages join
// into the top-level system string; images go to the last user turn, or to a
// new trailing user turn when there is none.
func buildRequest(model string, messages []domain.Message, images []string, maxTokens int) messagesRequest {
	var system strings.Builder
	out := make([]message, 0, len(messages)+1)

	target := -1
	if len(images) > 0 {
		target = lastUserIndex(messages)
	}

	for i, msg := range messages {
		if msg.Role == domain.RoleSystem {
			system.WriteString(msg.Content)
			system.WriteString("\n\n")
			continue
		}

		role := "user"
		if msg.Role == domain.RoleAssistant {
			role = "assistant"
		}

		var attach []string
		if i == target {
			attach = images
		}
		if parts := contentParts(msg.Content, attach); len(parts) > 0 {
			out = append(out, message{Role: role, Content: parts})
		}
	}

	if len(images) > 0 && target == -1 {
		out = append(out, message{Role: "user", Content: contentParts("", images)})
	}

	return messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    strings.TrimSpace(system.String()),
		Messages:  out,
	}
}

func contentParts(text string, images []string) []contentPart {
	trimmed := strings.TrimSpace(text)
	if len(images) == 0 {
		if trimmed == "" {
			return nil
		}
		return []contentPart{{Type: "text", Text: trimmed}}
	}

	parts := make([]contentPart, 0, len(images)+2)
	if trimmed != "" {
		parts = append(parts, contentPart{Type: "text", Text: trimmed})
	}
	for _, raw := range images {
		img := imagedata.Parse(raw)
		if img.Data == "" {
			continue
		}
		parts = append(parts, contentPart{
			Type:   "image",
			Source: &imageSource{Type: "base64", MediaType: img.MIMEType, Data: img.Data},
		})
	}

	closing := imageOnlyPrompt
	if trimmed != "" {
		closing = imageQuestionSuffix
	}
	return append(parts, contentPart{Type: "text", Text: closing})
}

func lastUserIndex(messages []domain.Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return i
		}
	}
	return -1
}
