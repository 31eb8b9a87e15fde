// Package ai provides clients for OpenAI-compatible embedding and chat
// completion endpoints.
package ai

import (
	"context"
)

// Embedder turns text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Message is a single turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TextGenerator produces a completion for a chat transcript.
type TextGenerator interface {
	Generate(ctx context.Context, messages []Message, temperature float64) (string, error)
}
