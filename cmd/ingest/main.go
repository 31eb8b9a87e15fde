// Command main ingests the trail corpus into the vector store.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"roamly/internal/ai"
	"roamly/internal/config"
	"roamly/internal/ingest"
	"roamly/internal/summarize"
	"roamly/internal/vectorstore"
)

func main() {
	corpusPath := flag.String("corpus", "", "Path to the trail corpus JSON (overrides CORPUS_PATH)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	path := cfg.CorpusPath
	if *corpusPath != "" {
		path = *corpusPath
	}

	records, err := ingest.LoadCorpus(path)
	if err != nil {
		log.Fatalf("Failed to load corpus %q: %v", path, err)
	}
	log.Printf("Loaded %d trail records from %s", len(records), path)

	embedder := ai.NewOpenAIEmbedder(cfg.EmbedBaseURL, cfg.EmbedAPIKey, cfg.EmbedModel, cfg.EmbedDimension)

	var store vectorstore.Store
	if cfg.VectorBackend == "memory" {
		log.Println("WARNING: ingesting into the in-memory store; data is lost on exit")
		store = vectorstore.NewMemoryStore()
	} else {
		store = vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantCollection)
	}

	var summarizer summarize.Summarizer
	switch cfg.Summarizer {
	case "frequency":
		summarizer = summarize.NewFrequencySummarizer()
	case "llm":
		generator := ai.NewOpenAIGenerator(cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatModel)
		summarizer = summarize.NewLLMSummarizer(generator)
	case "":
		// Full summaries pass through unchanged
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pipeline := ingest.NewPipeline(embedder, store, summarizer)
	if err := pipeline.Run(ctx, records); err != nil {
		log.Fatalf("Ingest failed: %v", err)
	}

	log.Printf("Ingest complete: %d trails indexed into %q", len(records), cfg.QdrantCollection)
}
