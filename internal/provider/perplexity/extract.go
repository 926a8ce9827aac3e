package perplexity

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractText reads the text of a chat completion payload, streamed or not.
// It tries choices[0].delta.content (or the delta itself), then
// choices[0].message.content, then a top-level output_text string.
func ExtractText(payload gjson.Result) string {
	if choice := payload.Get("choices.0"); choice.Exists() {
		if delta := choice.Get("delta"); delta.Exists() {
			content := delta.Get("content")
			if !content.Exists() || content.Type == gjson.Null {
				content = delta
			}
			if text := contentText(content); text != "" {
				return text
			}
		}
		if text := contentText(choice.Get("message.content")); text != "" {
			return text
		}
	}

	if out := payload.Get("output_text"); out.Type == gjson.String {
		return out.String()
	}
	return ""
}

// contentText accepts a string, an array of string or {text} parts, or a
// single {text} object.
func contentText(content gjson.Result) string {
	switch {
	case content.Type == gjson.String:
		return content.String()
	case content.IsArray():
		var b strings.Builder
		content.ForEach(func(_, part gjson.Result) bool {
			if part.Type == gjson.String {
				b.WriteString(part.String())
			} else if text := part.Get("text"); text.Type == gjson.String {
				b.WriteString(text.String())
			}
			return true
		})
		return b.String()
	case content.IsObject():
		if text := content.Get("text"); text.Type == gjson.String {
			return text.String()
		}
	}
	return ""
}
