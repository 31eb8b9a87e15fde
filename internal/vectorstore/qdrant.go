package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// QdrantStore talks to a Qdrant instance over its REST API.
type QdrantStore struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

// NewQdrantStore returns a store bound to one collection.
func NewQdrantStore(baseURL, apiKey, collection string) *QdrantStore {
	return &QdrantStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		collection: collection,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (q *QdrantStore) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal qdrant request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create qdrant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &statusError{code: resp.StatusCode, body: string(b)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode qdrant response: %w", err)
		}
	}
	return nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant returned %d: %s", e.code, e.body)
}

// EnsureCollection creates the collection with cosine distance if it does not
// already exist.
func (q *QdrantStore) EnsureCollection(ctx context.Context, dimension int) error {
	err := q.do(ctx, http.MethodGet, "/collections/"+q.collection, nil, nil)
	if err == nil {
		return nil
	}
	var se *statusError
	if !asStatusError(err, &se) || se.code != http.StatusNotFound {
		return err
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return q.do(ctx, http.MethodPut, "/collections/"+q.collection, body, nil)
}

func asStatusError(err error, target **statusError) bool {
	se, ok := err.(*statusError)
	if ok {
		*target = se
	}
	return ok
}

type qdrantPoint struct {
	ID      uint64       `json:"id"`
	Vector  []float32    `json:"vector"`
	Payload TrailPayload `json:"payload"`
}

// Upsert writes points synchronously (wait=true) so ingest completion implies
// searchability.
func (q *QdrantStore) Upsert(ctx context.Context, points []Point) error {
	pts := make([]qdrantPoint, 0, len(points))
	for _, p := range points {
		pts = append(pts, qdrantPoint{ID: p.ID, Vector: p.Vector, Payload: p.Payload})
	}
	body := map[string]any{"points": pts}
	return q.do(ctx, http.MethodPut, "/collections/"+q.collection+"/points?wait=true", body, nil)
}

type qdrantSearchResponse struct {
	Result []struct {
		ID      uint64       `json:"id"`
		Score   float32      `json:"score"`
		Payload TrailPayload `json:"payload"`
	} `json:"result"`
}

// Search returns the limit nearest points with payloads.
func (q *QdrantStore) Search(ctx context.Context, vector []float32, limit int) ([]Result, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var out qdrantSearchResponse
	if err := q.do(ctx, http.MethodPost, "/collections/"+q.collection+"/points/search", body, &out); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(out.Result))
	for _, r := range out.Result {
		results = append(results, Result{ID: r.ID, Score: r.Score, Payload: r.Payload})
	}
	return results, nil
}

type qdrantCountResponse struct {
	Result struct {
		Count uint64 `json:"count"`
	} `json:"result"`
}

// Count returns the exact number of points in the collection. A missing
// collection counts as zero.
func (q *QdrantStore) Count(ctx context.Context) (uint64, error) {
	body := map[string]any{"exact": true}
	var out qdrantCountResponse
	err := q.do(ctx, http.MethodPost, "/collections/"+q.collection+"/points/count", body, &out)
	if err != nil {
		var se *statusError
		if asStatusError(err, &se) && se.code == http.StatusNotFound {
			return 0, nil
		}
		return 0, err
	}
	return out.Result.Count, nil
}

// Ping checks the instance is reachable.
func (q *QdrantStore) Ping(ctx context.Context) error {
	return q.do(ctx, http.MethodGet, "/collections", nil, nil)
}
