package domain

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

const (
	// MinQuestionTranscriptLength is the shortest transcript worth analysing.
	MinQuestionTranscriptLength = 50

	minQuestionLength = 5
	questionIDPrefix  = 50
)

// QuestionSource tells which audio channel a question came from.
type QuestionSource string

const (
	SourceMicrophone QuestionSource = "microphone"
	SourceSystem     QuestionSource = "system"
)

// Question is one question detected in a meeting transcript.
type Question struct {
	ID          string         `json:"id"`
	Text        string         `json:"text"`
	Source      QuestionSource `json:"source"`
	ExtractedAt time.Time      `json:"extractedAt"`
}

type extractedQuestion struct {
	Q        string `json:"q"`
	Question string `json:"question"`
	S        string `json:"s"`
	Source   string `json:"source"`
}

//nolint:gochecknoglobals // compiled once
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*?\]`)

// ParseQuestions decodes a model reply into questions. The reply should be a
// JSON array of {"q","s"} objects; when it is not, the first bracketed block is
// tried instead. Unparseable replies yield no questions.
func ParseQuestions(reply string, now time.Time) []Question {
	var items []extractedQuestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &items); err != nil {
		match := jsonArrayPattern.FindString(reply)
		if match == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(match), &items); err != nil {
			return nil
		}
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]Question, 0, len(items))
	for _, item := range items {
		text := item.Q
		if text == "" {
			text = item.Question
		}
		trimmed := strings.TrimSpace(text)
		if len(trimmed) <= minQuestionLength {
			continue
		}

		source := SourceMicrophone
		if item.S == string(SourceSystem) || (item.S == "" && item.Source == string(SourceSystem)) {
			source = SourceSystem
		}

		id := QuestionID(source, text)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		out = append(out, Question{
			ID:          id,
			Text:        trimmed,
			Source:      source,
			ExtractedAt: now,
		})
	}

	return out
}

// QuestionID derives the stable id used to deduplicate questions.
func QuestionID(source QuestionSource, text string) string {
	runes := []rune(text)
	if len(runes) > questionIDPrefix {
		runes = runes[:questionIDPrefix]
	}
	return "ai-" + string(source) + "-" + string(runes)
}
