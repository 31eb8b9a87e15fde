// Command main is the entry point for the Roamly backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roamly/internal/ai"
	"roamly/internal/config"
	"roamly/internal/observability"
	"roamly/internal/server"
	"roamly/internal/storage"
	"roamly/internal/vectorstore"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "roamly-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampler,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	objectStore, err := storage.NewS3Store(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	embedder := ai.NewOpenAIEmbedder(cfg.EmbedBaseURL, cfg.EmbedAPIKey, cfg.EmbedModel, cfg.EmbedDimension)
	generator := ai.NewOpenAIGenerator(cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatModel)

	vectorStore, err := openVectorStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to vector store: %v", err)
	}

	srv, err := server.NewServer(cfg, objectStore, embedder, generator, vectorStore)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
		os.Exit(0)
	}()

	log.Fatal(srv.Start())
}

// openVectorStore builds the configured vector store, waiting for Qdrant to
// come up so the server does not race its sidecar at boot.
func openVectorStore(cfg *config.Config) (vectorstore.Store, error) {
	if cfg.VectorBackend == "memory" {
		store := vectorstore.NewMemoryStore()
		if err := store.EnsureCollection(context.Background(), cfg.EmbedDimension); err != nil {
			return nil, err
		}
		return store, nil
	}

	store := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantCollection)

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lastErr = store.Ping(ctx)
		cancel()
		if lastErr == nil {
			return store, nil
		}
		log.Printf("Qdrant not ready (attempt %d/5): %v", attempt, lastErr)
		time.Sleep(2 * time.Second)
	}
	return nil, lastErr
}
