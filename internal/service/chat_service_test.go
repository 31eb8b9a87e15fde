package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamly/internal/ai"
	"roamly/internal/models"
	"roamly/internal/vectorstore"
)

type stubEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (s *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	s.calls++
	return s.vector, s.err
}

func (s *stubEmbedder) Dimension() int { return len(s.vector) }

type stubGenerator struct {
	reply    string
	err      error
	messages []ai.Message
}

func (s *stubGenerator) Generate(_ context.Context, messages []ai.Message, _ float64) (string, error) {
	s.messages = messages
	return s.reply, s.err
}

func seededStore(t *testing.T) *vectorstore.MemoryStore {
	t.Helper()
	store := vectorstore.NewMemoryStore()
	require.NoError(t, store.EnsureCollection(context.Background(), 2))
	require.NoError(t, store.Upsert(context.Background(), []vectorstore.Point{
		{ID: 1, Vector: []float32{1, 0}, Payload: vectorstore.TrailPayload{
			HikeName: "Juan de Fuca", Distance: "47 km", TimeToComplete: "4 days", Summary: "Coastal.",
		}},
		{ID: 2, Vector: []float32{0.8, 0.2}, Payload: vectorstore.TrailPayload{
			HikeName: "Cape Scott", Distance: "23 km", TimeToComplete: "2 days", Summary: "Windy.",
		}},
		{ID: 3, Vector: []float32{0, 1}, Payload: vectorstore.TrailPayload{
			HikeName: "Mount Work", Distance: "5.5 km", TimeToComplete: "2 hours", Summary: "Rocky.",
		}},
		{ID: 4, Vector: []float32{-1, 0}, Payload: vectorstore.TrailPayload{
			HikeName: "Far Away", Distance: "1 km", TimeToComplete: "10 min", Summary: "Irrelevant.",
		}},
	}))
	return store
}

func TestChatService_Ask(t *testing.T) {
	embedder := &stubEmbedder{vector: []float32{1, 0}}
	generator := &stubGenerator{reply: "Try the Juan de Fuca trail!"}
	svc := NewChatService(embedder, generator, seededStore(t))

	answer, err := svc.Ask(context.Background(), "What's a good multi-day coastal hike?")
	require.NoError(t, err)
	assert.Equal(t, "Try the Juan de Fuca trail!", answer.Reply)
	require.Len(t, answer.Trails, 3)
	assert.Equal(t, "Juan de Fuca", answer.Trails[0].HikeName)

	// Prompt carries the retrieved trail facts and the question
	require.Len(t, generator.messages, 2)
	assert.Equal(t, "system", generator.messages[0].Role)
	assert.Contains(t, generator.messages[0].Content, "Roamly Rabbit")
	assert.Contains(t, generator.messages[1].Content, "Juan de Fuca is a 47 km hike that takes around 4 days to complete.")
	assert.Contains(t, generator.messages[1].Content, "Question: What's a good multi-day coastal hike?")
}

func TestChatService_AskRejectsLongQueryBeforeEmbedding(t *testing.T) {
	embedder := &stubEmbedder{vector: []float32{1, 0}}
	svc := NewChatService(embedder, &stubGenerator{}, seededStore(t))

	_, err := svc.Ask(context.Background(), strings.Repeat("q", 501))
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Zero(t, embedder.calls)
}

func TestChatService_AskEmptyQuery(t *testing.T) {
	svc := NewChatService(&stubEmbedder{}, &stubGenerator{}, seededStore(t))
	_, err := svc.Ask(context.Background(), "  ")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestChatService_AskEmbedderFailure(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("connection refused")}
	svc := NewChatService(embedder, &stubGenerator{}, seededStore(t))

	_, err := svc.Ask(context.Background(), "hello")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUpstream, appErr.Code)
}

func TestChatService_AskGeneratorFailure(t *testing.T) {
	embedder := &stubEmbedder{vector: []float32{1, 0}}
	generator := &stubGenerator{err: errors.New("model overloaded")}
	svc := NewChatService(embedder, generator, seededStore(t))

	_, err := svc.Ask(context.Background(), "hello")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUpstream, appErr.Code)
}
