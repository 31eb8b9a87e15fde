// Package ingest loads the trail corpus into the vector index.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// TrailRecord is one scraped trail entry from the corpus file. Field names
// follow the scraper's output.
type TrailRecord struct {
	TrailName     string `json:"Trail name"`
	Length        string `json:"Length"`
	EstimatedTime string `json:"Estimated time"`
	Summary       string `json:"Summary"`
}

// LoadCorpus reads and decodes the corpus JSON file.
func LoadCorpus(path string) ([]TrailRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %q: %w", path, err)
	}

	var records []TrailRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file %q: %w", path, err)
	}
	return records, nil
}
