package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	// ProviderStatic is the deterministic offline responder used when no
	// model is reachable or wanted.
	ProviderStatic ProviderType = "static"
	// ProviderLocal is the offline embedding counterpart to ProviderStatic.
	ProviderLocal ProviderType = "local"
)

// Config is the top-level skriptgen configuration, corresponding to
// skriptgen.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	OllamaBaseURL string `yaml:"ollama_base_url" koanf:"ollama_base_url"`

	DocumentsDir   string `yaml:"documents_dir" koanf:"documents_dir"`
	VectorStoreDir string `yaml:"vectorstore_dir" koanf:"vectorstore_dir"`
	OutputDir      string `yaml:"output_dir" koanf:"output_dir"`
	DatabasePath   string `yaml:"database_path" koanf:"database_path"`
	CatalogPath    string `yaml:"catalog_path" koanf:"catalog_path"`

	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	ChunkSize    int `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	TopKPerQuery int `yaml:"top_k_per_query" koanf:"top_k_per_query"`

	// Duration is the target course length stated in content prompts.
	Duration string `yaml:"duration" koanf:"duration"`

	Server ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port int    `yaml:"port" koanf:"port"`
}
