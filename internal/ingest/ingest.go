package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"roamly/internal/ai"
	"roamly/internal/middleware"
	"roamly/internal/summarize"
	"roamly/internal/vectorstore"
)

const summarySentences = 3

// Pipeline embeds trail records and writes them to the vector store.
type Pipeline struct {
	embedder   ai.Embedder
	store      vectorstore.Store
	summarizer summarize.Summarizer
}

// NewPipeline wires an ingestion pipeline.
func NewPipeline(embedder ai.Embedder, store vectorstore.Store, summarizer summarize.Summarizer) *Pipeline {
	return &Pipeline{
		embedder:   embedder,
		store:      store,
		summarizer: summarizer,
	}
}

// Sentence renders the canonical embedding text for a trail.
func Sentence(name, distance, timeToComplete, summary string) string {
	return fmt.Sprintf("%s is a %s hike that takes around %s to complete. %s",
		name, distance, timeToComplete, summary)
}

// Run ingests all records. IDs are assigned by corpus position starting at 1,
// so re-running on the same corpus replaces points in place rather than
// duplicating them.
func (p *Pipeline) Run(ctx context.Context, records []TrailRecord) error {
	if err := p.store.EnsureCollection(ctx, p.embedder.Dimension()); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	existing, err := p.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count existing points: %w", err)
	}
	if existing > 0 {
		middleware.Logger.Warn("collection already contains points, ingest will overwrite by ID",
			slog.Uint64("existing", existing),
			slog.Int("incoming", len(records)),
		)
	}

	points := make([]vectorstore.Point, 0, len(records))
	for i, rec := range records {
		summary := rec.Summary
		if p.summarizer != nil {
			condensed, err := p.summarizer.Summarize(ctx, rec.Summary, summarySentences)
			if err != nil {
				return fmt.Errorf("failed to summarize %q: %w", rec.TrailName, err)
			}
			if condensed != "" {
				summary = condensed
			}
		}

		text := Sentence(rec.TrailName, rec.Length, rec.EstimatedTime, summary)
		vector, err := p.embedder.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to embed %q: %w", rec.TrailName, err)
		}

		points = append(points, vectorstore.Point{
			ID:     uint64(i + 1),
			Vector: vector,
			Payload: vectorstore.TrailPayload{
				HikeName:       rec.TrailName,
				Distance:       rec.Length,
				TimeToComplete: rec.EstimatedTime,
				Summary:        summary,
			},
		})
	}

	if err := p.store.Upsert(ctx, points); err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	middleware.Logger.Info("trail corpus ingested", slog.Int("points", len(points)))
	return nil
}
