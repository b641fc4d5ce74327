package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the chatbot.
type Config struct {
	Provider    string           `yaml:"provider"` // "openai" or "gemini"
	Transcripts TranscriptConfig `yaml:"transcripts"`
	Index       IndexConfig      `yaml:"index"`
	Chunk       ChunkConfig      `yaml:"chunk"`
	Retrieve    RetrieveConfig   `yaml:"retrieve"`
	Embedding   EmbeddingConfig  `yaml:"embedding"`
	OpenAI      OpenAIConfig     `yaml:"openai"`
	Gemini      GeminiConfig     `yaml:"gemini"`
	Captions    CaptionConfig    `yaml:"captions"`
	Server      ServerConfig     `yaml:"server"`
	Logging     LoggingConfig    `yaml:"logging"`
}

// TranscriptConfig holds transcript artifact storage configuration.
type TranscriptConfig struct {
	Dir string `yaml:"dir"`
}

// IndexConfig holds vector collection configuration.
type IndexConfig struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"`
}

// ChunkConfig holds text chunking configuration.
type ChunkConfig struct {
	Size    int `yaml:"size"`    // window size in characters
	Overlap int `yaml:"overlap"` // shared characters between adjacent windows
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
}

// OpenAIConfig holds the chat-completion backend configuration.
type OpenAIConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// GeminiConfig holds the direct-generation backend configuration.
type GeminiConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// CaptionConfig holds caption acquisition configuration.
type CaptionConfig struct {
	Language string `yaml:"language"`
}

// ServerConfig holds web front end configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		Transcripts: TranscriptConfig{Dir: "./transcripts"},
		Index:       IndexConfig{Dir: "./index", Name: "transcripts"},
		Chunk:       ChunkConfig{Size: 1000, Overlap: 200},
		Retrieve:    RetrieveConfig{TopK: 4},
		Embedding: EmbeddingConfig{
			Model:     "text-embedding-ada-002",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		OpenAI: OpenAIConfig{
			Model:     "gpt-3.5-turbo",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Gemini: GeminiConfig{
			Model:     "gemini-pro",
			APIKeyEnv: "GOOGLE_API_KEY",
		},
		Captions: CaptionConfig{Language: "en"},
		Server:   ServerConfig{Addr: ":8080"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for ytrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "ytrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the selected backend's credential is present. It runs
// before any work begins so a missing key fails fast.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai":
		if os.Getenv(c.OpenAI.APIKeyEnv) == "" {
			return fmt.Errorf("%s is required when using OpenAI", c.OpenAI.APIKeyEnv)
		}
	case "gemini":
		if os.Getenv(c.Gemini.APIKeyEnv) == "" {
			return fmt.Errorf("%s is required when using Gemini", c.Gemini.APIKeyEnv)
		}
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	if os.Getenv(c.Embedding.APIKeyEnv) == "" {
		return fmt.Errorf("%s is required for embeddings", c.Embedding.APIKeyEnv)
	}
	return nil
}

// IndexDBPath returns the path to the collection database file.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, "index.db")
}
