package config

// DefaultExcludes are glob patterns skipped during corpus indexing.
var DefaultExcludes = []string{
	".git/**",
	"**/*.tmp",
	"**/~*",
}

// DefaultConfig returns a Config with sensible defaults. The default stack
// is a local Ollama instance; the static provider remains the fallback when
// it is unreachable.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOllama,
		Model:             "llama3.1",
		EmbeddingProvider: ProviderOllama,
		EmbeddingModel:    "nomic-embed-text",
		OllamaBaseURL:     "http://localhost:11434",
		DocumentsDir:      "./data/documents",
		VectorStoreDir:    "./data/vectorstore",
		OutputDir:         "./data/output",
		DatabasePath:      "./data/skriptgen.db",
		Include:           []string{"**/*.md", "**/*.txt"},
		Exclude:           DefaultExcludes,
		ChunkSize:         1000,
		ChunkOverlap:      200,
		TopKPerQuery:      5,
		Duration:          "30-45 Minuten",
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
	}
}
