package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SearchOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.EnsureCollection(ctx, 2))

	require.NoError(t, store.Upsert(ctx, []Point{
		{ID: 1, Vector: []float32{1, 0}, Payload: TrailPayload{HikeName: "East Ridge"}},
		{ID: 2, Vector: []float32{0, 1}, Payload: TrailPayload{HikeName: "North Face"}},
		{ID: 3, Vector: []float32{0.9, 0.1}, Payload: TrailPayload{HikeName: "East Slope"}},
	}))

	results, err := store.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "East Ridge", results[0].Payload.HikeName)
	assert.Equal(t, "East Slope", results[1].Payload.HikeName)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.EnsureCollection(ctx, 2))

	require.NoError(t, store.Upsert(ctx, []Point{{ID: 1, Vector: []float32{1, 0}, Payload: TrailPayload{HikeName: "Old"}}}))
	require.NoError(t, store.Upsert(ctx, []Point{{ID: 1, Vector: []float32{0, 1}, Payload: TrailPayload{HikeName: "New"}}}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	results, err := store.Search(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "New", results[0].Payload.HikeName)
}

func TestMemoryStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.EnsureCollection(ctx, 3))

	err := store.Upsert(ctx, []Point{{ID: 1, Vector: []float32{1, 0}}})
	assert.Error(t, err)

	err = store.EnsureCollection(ctx, 5)
	assert.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Equal(t, float32(0), cosineSimilarity([]float32{1}, []float32{1, 2}))
}
