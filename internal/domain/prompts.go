package domain

import "fmt"

const (
	// AssistantSystemPrompt frames every interactive question.
	AssistantSystemPrompt = "You are an expert AI assistant. Provide accurate, detailed, and helpful responses to user queries. " +
		"Be thorough in your analysis and explanations."

	// DefaultScreenshotQuery is sent when screenshots arrive without a question.
	DefaultScreenshotQuery = "Please analyze these screenshots and provide detailed insights."

	// SummarySystemPrompt is the fixed instruction of StreamAudioSummary.
	SummarySystemPrompt = "You are a real-time meeting summarizer. Produce concise rolling summaries focusing on decisions, " +
		"action items, and key points."

	// QuestionExtractionPrompt asks for a JSON array of questions.
	QuestionExtractionPrompt = "You are a question extraction specialist. Analyze the transcript and identify ALL questions. " +
		"Be comprehensive - catch questions that end with \"?\", rhetorical questions, indirect questions, and clarification requests. " +
		"Return ONLY valid JSON array: [{\"q\":\"exact question text\",\"s\":\"microphone\" or \"system\"}]. No markdown, no explanation."
)

// SummaryMessages builds the conversation used by StreamAudioSummary.
func SummaryMessages(transcript string) []Message {
	return []Message{
		SystemMessage(SummarySystemPrompt),
		UserMessage(transcript),
	}
}

// SummaryFallbackMessages builds the StreamText conversation used when a
// provider has no audio summary support.
func SummaryFallbackMessages(transcript string) []Message {
	return []Message{
		SystemMessage(SummarySystemPrompt),
		UserMessage(fmt.Sprintf(
			"Latest transcript chunk (append-only log, may contain duplicates):\n\n%s\n\nReturn just the current best summary:",
			transcript,
		)),
	}
}

// QuestionExtractionMessages builds the question extraction conversation.
func QuestionExtractionMessages(transcript string) []Message {
	return []Message{
		SystemMessage(QuestionExtractionPrompt),
		UserMessage(fmt.Sprintf("Transcript:\n%s\n\nExtract all questions as JSON array:", transcript)),
	}
}
