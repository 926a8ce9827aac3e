package gemini

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Paths tried, in order, to find the candidate of a response payload. The
// emitted shape differs between API versions, so every known one is accepted.
//
//nolint:gochecknoglobals // extraction contract
var CandidatePaths = []string{
	"candidates.0",
	"result.candidates.0",
	"serverContent.candidates.0",
	"completion.candidates.0",
	"modelOutput.0.content",
	"modelOutput.0",
}

// Paths tried, in order, to find the text parts within a candidate. Delta
// shapes come first.
//
//nolint:gochecknoglobals // extraction contract
var PartsPaths = []string{
	"delta.content.parts",
	"delta.parts",
	"delta.0.parts",
	"content.parts",
	"content.0.parts",
	"output.0.content.parts",
}

// ExtractText returns the text of the first candidate and parts path pair
// that yields any. A part is either a string or an object with a text field.
func ExtractText(payload gjson.Result) string {
	for _, cp := range CandidatePaths {
		candidate := payload.Get(cp)
		if !candidate.Exists() {
			continue
		}
		for _, pp := range PartsPaths {
			parts := candidate.Get(pp)
			if !parts.IsArray() {
				continue
			}
			if text := joinParts(parts); text != "" {
				return text
			}
		}
	}
	return ""
}

// FinishReason returns candidates[0].finishReason, or "".
func FinishReason(payload gjson.Result) string {
	return payload.Get("candidates.0.finishReason").String()
}

func joinParts(parts gjson.Result) string {
	var b strings.Builder
	parts.ForEach(func(_, part gjson.Result) bool {
		switch {
		case part.Type == gjson.String:
			b.WriteString(part.String())
		case part.Get("text").Type == gjson.String:
			b.WriteString(part.Get("text").String())
		}
		return true
	})
	return b.String()
}
