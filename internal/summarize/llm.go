package summarize

import (
	"context"
	"fmt"

	"roamly/internal/ai"
)

// LLMSummarizer asks a chat model to compress the text. Slower and costlier
// than FrequencySummarizer, but abstractive.
type LLMSummarizer struct {
	generator ai.TextGenerator
}

// NewLLMSummarizer returns a summarizer backed by the given generator.
func NewLLMSummarizer(generator ai.TextGenerator) *LLMSummarizer {
	return &LLMSummarizer{generator: generator}
}

// Summarize asks the model for a summary of at most maxSentences sentences.
func (s *LLMSummarizer) Summarize(ctx context.Context, text string, maxSentences int) (string, error) {
	if text == "" || maxSentences <= 0 {
		return "", nil
	}

	messages := []ai.Message{
		{
			Role: "system",
			Content: fmt.Sprintf(
				"You summarize hiking trail descriptions. Reply with at most %d sentences and no preamble.",
				maxSentences),
		},
		{Role: "user", Content: text},
	}

	summary, err := s.generator.Generate(ctx, messages, 0.3)
	if err != nil {
		return "", fmt.Errorf("llm summarization failed: %w", err)
	}
	return summary, nil
}
