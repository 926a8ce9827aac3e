package gemini

import (
	"strings"

	"github.com/davidbz/glimpse/internal/domain"
	"github.com/davidbz/glimpse/internal/imagedata"
)

const (
	temperature = 0.7
	topP        = 0.95
	topK        = 40

	multiImageInstruction = "Consider every user-provided image together before answering."
	imageQuestionSuffix   = "Please use every image above when responding."
	imageOnlyPrompt       = "Please analyze all of the images above when responding."
)

type inlineData struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

// buildRequest converts messages to a generateContent body. System messages
// collapse into systemInstruction and images go to the last user message.
func buildRequest(messages []domain.Message, images []string, maxOutputTokens int) generateRequest {
	var system strings.Builder
	contents := make([]content, 0, len(messages)+1)

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
			role = "model"
		}

		var parts []part
		switch {
		case i == target:
			parts = imageParts(msg.Content, images)
		case msg.Content != "":
			parts = []part{{Text: msg.Content}}
		}
		if len(parts) > 0 {
			contents = append(contents, content{Role: role, Parts: parts})
		}
	}

	if len(images) > 0 && target == -1 {
		contents = append(contents, content{Role: "user", Parts: imageParts("", images)})
	}

	if len(images) > 1 {
		system.WriteString(multiImageInstruction)
	}

	req := generateRequest{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
			TopP:            topP,
			TopK:            topK,
		},
	}
	if instruction := strings.TrimSpace(system.String()); instruction != "" {
		req.SystemInstruction = &content{Role: "system", Parts: []part{{Text: instruction}}}
	}

	return req
}

func imageParts(question string, images []string) []part {
	parts := make([]part, 0, len(images)+1)
	for _, raw := range images {
		img := imagedata.Parse(raw)
		if img.Data == "" {
			continue
		}
		parts = append(parts, part{InlineData: &inlineData{Data: img.Data, MIMEType: img.MIMEType}})
	}

	prompt := imageOnlyPrompt
	if q := strings.TrimSpace(question); q != "" {
		prompt = q + "\n\n" + imageQuestionSuffix
	}
	return append(parts, part{Text: prompt})
}

func lastUserIndex(messages []domain.Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return i
		}
	}
	return -1
}
