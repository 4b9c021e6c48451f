package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/skriptgen/skriptgen/internal/catalog"
	"github.com/skriptgen/skriptgen/internal/config"
	"github.com/skriptgen/skriptgen/internal/corpus"
	"github.com/skriptgen/skriptgen/internal/dialog"
	"github.com/skriptgen/skriptgen/internal/embeddings"
	"github.com/skriptgen/skriptgen/internal/format"
	"github.com/skriptgen/skriptgen/internal/generation"
	"github.com/skriptgen/skriptgen/internal/llm"
	"github.com/skriptgen/skriptgen/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `skriptgen init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createProvider builds the configured LLM provider. When the configured
// provider cannot be constructed, the deterministic static responder is
// substituted once here so the rest of the pipeline never branches on
// availability.
func createProvider(cfg *config.Config) llm.Provider {
	if cfg.Provider == config.ProviderOllama && cfg.OllamaBaseURL != "" {
		return llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.Model)
	}
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; falling back to the offline static provider\n", err)
		return llm.NewStaticProvider()
	}
	return provider
}

// createEmbedder builds the configured embedder, falling back to the local
// deterministic embedder.
func createEmbedder(cfg *config.Config) embeddings.Embedder {
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "Warning: OPENAI_API_KEY is not set; falling back to the local embedder")
			return embeddings.NewLocalEmbedder(0)
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel))
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, 768, cfg.OllamaBaseURL)
	default:
		return embeddings.NewLocalEmbedder(0)
	}
}

// openStore creates the vector store and loads a persisted index when one
// exists.
func openStore(cfg *config.Config, embedder embeddings.Embedder) (vectordb.VectorStore, error) {
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}
	if _, statErr := os.Stat(cfg.VectorStoreDir); statErr == nil {
		if err := store.Load(context.Background(), cfg.VectorStoreDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load vector store from %s: %v\n", cfg.VectorStoreDir, err)
		}
	}
	return store, nil
}

// controllerFactory returns a constructor for per-conversation controllers
// sharing the given collaborators.
func controllerFactory(cfg *config.Config, provider llm.Provider, store vectordb.VectorStore) func() *dialog.Controller {
	gen := generation.NewGenerator(provider, generation.Options{Model: cfg.Model})
	retriever := vectordb.NewRetriever(store)
	cat := catalog.Load(cfg.CatalogPath)
	formatter := format.New()

	return func() *dialog.Controller {
		return dialog.NewController(dialog.Options{
			Catalog:      cat,
			Generator:    gen,
			Retriever:    retriever,
			Formatter:    formatter,
			Duration:     cfg.Duration,
			TopKPerQuery: cfg.TopKPerQuery,
		})
	}
}

// indexer rebuilds the retrieval index from the document corpus.
type indexer struct {
	cfg   *config.Config
	store vectordb.VectorStore
}

// Reindex loads, chunks and embeds the corpus, then persists the index.
// Returns the number of chunks indexed.
func (ix *indexer) Reindex(ctx context.Context) (int, error) {
	loader := corpus.NewLoader(ix.cfg.DocumentsDir, ix.cfg.Include, ix.cfg.Exclude)
	files, err := loader.Load()
	if err != nil {
		return 0, fmt.Errorf("loading documents: %w", err)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no documents found in %s", ix.cfg.DocumentsDir)
	}

	chunker := corpus.NewChunker(ix.cfg.ChunkSize, ix.cfg.ChunkOverlap)
	docs := chunker.Chunk(files)

	bar := progressbar.NewOptions(len(docs),
		progressbar.OptionSetDescription("Indexing corpus"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	// Add in small batches so the bar tracks embedding progress.
	const batchSize = 16
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := ix.store.AddDocuments(ctx, docs[start:end]); err != nil {
			return 0, fmt.Errorf("indexing documents: %w", err)
		}
		_ = bar.Set(end)
	}
	_ = bar.Finish()

	if err := os.MkdirAll(ix.cfg.VectorStoreDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating vector store dir: %w", err)
	}
	if err := ix.store.Persist(ctx, ix.cfg.VectorStoreDir); err != nil {
		return 0, fmt.Errorf("persisting vector store: %w", err)
	}
	return len(docs), nil
}
