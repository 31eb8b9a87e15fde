package service

import (
	"context"
	"fmt"
	"strings"

	"roamly/internal/ai"
	"roamly/internal/ingest"
	"roamly/internal/models"
	"roamly/internal/observability"
	"roamly/internal/validation"
	"roamly/internal/vectorstore"

	"go.opentelemetry.io/otel/attribute"
)

const (
	chatTopK        = 3
	chatTemperature = 0.7
)

const systemPrompt = "You are Roamly Rabbit, a cheerful and knowledgeable hiking guide for " +
	"Vancouver Island. You answer questions about local trails using only the trail " +
	"information provided to you. If the provided trails do not answer the question, " +
	"say so honestly rather than inventing trails. Keep answers friendly and concise."

// ChatService runs the retrieval-augmented trail chat pipeline:
// embed the question, retrieve the closest trails, then ask the model.
type ChatService struct {
	embedder  ai.Embedder
	generator ai.TextGenerator
	store     vectorstore.Store
}

// NewChatService returns a new ChatService.
func NewChatService(embedder ai.Embedder, generator ai.TextGenerator, store vectorstore.Store) *ChatService {
	return &ChatService{
		embedder:  embedder,
		generator: generator,
		store:     store,
	}
}

// ChatAnswer is the reply plus the trails it was grounded on.
type ChatAnswer struct {
	Reply  string                     `json:"response"`
	Trails []vectorstore.TrailPayload `json:"trails"`
}

// Ask answers a trail question. The query is validated before any upstream
// call is made.
func (s *ChatService) Ask(ctx context.Context, query string) (*ChatAnswer, error) {
	if err := validation.ValidateChatQuery(query); err != nil {
		observability.ChatRequestsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	span, ctx := observability.NewSpan(ctx, "chat.ask")
	defer span.End()
	span.AddAttributes(attribute.Int("chat.query_chars", len(query)))

	vector, err := s.embedQuery(ctx, query)
	if err != nil {
		span.SetError(err)
		observability.ChatRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	results, err := s.searchTrails(ctx, vector)
	if err != nil {
		span.SetError(err)
		observability.ChatRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	reply, err := s.generateReply(ctx, query, results)
	if err != nil {
		span.SetError(err)
		observability.ChatRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	trails := make([]vectorstore.TrailPayload, 0, len(results))
	for _, r := range results {
		trails = append(trails, r.Payload)
	}

	observability.ChatRequestsTotal.WithLabelValues("ok").Inc()
	return &ChatAnswer{Reply: reply, Trails: trails}, nil
}

func (s *ChatService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	span, ctx := observability.NewSpan(ctx, "chat.embed")
	defer span.End()
	defer observability.TrackChatStage("embed")()

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, models.NewUpstreamError("embedding", err)
	}
	return vector, nil
}

func (s *ChatService) searchTrails(ctx context.Context, vector []float32) ([]vectorstore.Result, error) {
	span, ctx := observability.NewSpan(ctx, "chat.search")
	defer span.End()
	defer observability.TrackChatStage("search")()

	results, err := s.store.Search(ctx, vector, chatTopK)
	if err != nil {
		return nil, models.NewUpstreamError("vector index", err)
	}
	span.AddAttributes(attribute.Int("chat.results", len(results)))
	return results, nil
}

func (s *ChatService) generateReply(ctx context.Context, query string, results []vectorstore.Result) (string, error) {
	span, ctx := observability.NewSpan(ctx, "chat.generate")
	defer span.End()
	defer observability.TrackChatStage("generate")()

	reply, err := s.generator.Generate(ctx, []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(query, results)},
	}, chatTemperature)
	if err != nil {
		return "", models.NewUpstreamError("language model", err)
	}
	return reply, nil
}

func buildPrompt(query string, results []vectorstore.Result) string {
	var b strings.Builder
	b.WriteString("Here is trail information that may be relevant:\n\n")
	if len(results) == 0 {
		b.WriteString("(no matching trails found)\n")
	}
	for _, r := range results {
		p := r.Payload
		fmt.Fprintf(&b, "- %s\n", ingest.Sentence(p.HikeName, p.Distance, p.TimeToComplete, p.Summary))
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(query)
	return b.String()
}
