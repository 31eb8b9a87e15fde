// Package vectorstore abstracts the vector index used by trail chat.
package vectorstore

import (
	"context"
)

// TrailPayload is the metadata stored alongside each trail vector.
type TrailPayload struct {
	HikeName       string `json:"hike_name"`
	Distance       string `json:"distance"`
	TimeToComplete string `json:"time_to_complete"`
	Summary        string `json:"summary"`
}

// Point is a vector plus its payload, addressed by a numeric ID.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload TrailPayload
}

// Result is a search hit with its similarity score.
type Result struct {
	ID      uint64
	Score   float32
	Payload TrailPayload
}

// Store is a cosine-similarity vector index.
type Store interface {
	// EnsureCollection creates the collection if absent with the given
	// vector size.
	EnsureCollection(ctx context.Context, dimension int) error
	// Upsert inserts or replaces points.
	Upsert(ctx context.Context, points []Point) error
	// Search returns the top-k most similar points, best first.
	Search(ctx context.Context, vector []float32, limit int) ([]Result, error)
	// Count returns the number of stored points.
	Count(ctx context.Context) (uint64, error)
	// Ping reports whether the backing index is reachable.
	Ping(ctx context.Context) error
}
