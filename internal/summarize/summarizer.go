// Package summarize condenses long trail descriptions before ingestion.
package summarize

import "context"

// Summarizer reduces text to at most maxSentences sentences.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxSentences int) (string, error)
}
