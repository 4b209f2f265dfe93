// Package config manages user-wide (~/.config/sage/config.toml) configuration
// for Sage.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds user-wide settings.
type Config struct {
	DefaultModel    string        `toml:"default_model"`
	DefaultEmbedder string        `toml:"default_embedder"`
	Keys            KeysConfig    `toml:"keys"`
	Ollama          OllamaConfig  `toml:"ollama"`
	Context         ContextConfig `toml:"context"`
	Output          OutputConfig  `toml:"output"`
	Mentor          MentorConfig  `toml:"mentor"`
}

type KeysConfig struct {
	Anthropic string `toml:"anthropic"`
	OpenAI    string `toml:"openai"`
}

type OllamaConfig struct {
	Host            string `toml:"host"`
	EmbedModel      string `toml:"embed_model"`
	CompletionModel string `toml:"completion_model"`
}

type ContextConfig struct {
	MaxTokens           int     `toml:"max_tokens"`
	MaxMemories         int     `toml:"max_memories"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

type OutputConfig struct {
	Stream bool `toml:"stream"`
	Color  bool `toml:"color"`
}

type MentorConfig struct {
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		DefaultModel:    "claude",
		DefaultEmbedder: "fallback",
		Ollama: OllamaConfig{
			Host:            "http://localhost:11434",
			EmbedModel:      "all-minilm",
			CompletionModel: "llama3.2",
		},
		Context: ContextConfig{
			MaxTokens:   4000,
			MaxMemories: 10,
		},
		Output: OutputConfig{
			Stream: true,
			Color:  true,
		},
		Mentor: MentorConfig{
			MaxTokens:   1024,
			Temperature: 0.7,
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sage", "config.toml"), nil
}

// DBPath returns the path to the SQLite database.
func DBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "sage", "sage.db"), nil
}

// Load loads the config, applying defaults for any missing values. A .env
// file in the working directory is read first so keys can live there during
// development; real environment variables win over both it and the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	path, err := Path()
	if err != nil {
		return applyEnv(cfg), nil // Return defaults if we can't determine home dir.
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return applyEnv(cfg), nil // File doesn't exist yet, use defaults.
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load: %w", err)
	}
	return applyEnv(cfg), nil
}

// applyEnv lets env vars override config file API keys.
func applyEnv(cfg Config) Config {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Keys.Anthropic = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}
	return cfg
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Key returns the API key for the given provider, empty if none is set.
func (c Config) Key(provider string) string {
	switch provider {
	case "claude":
		return c.Keys.Anthropic
	case "openai":
		return c.Keys.OpenAI
	}
	return ""
}
