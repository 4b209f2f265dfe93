package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultModel != "claude" {
		t.Errorf("default model: got %q, want %q", cfg.DefaultModel, "claude")
	}
	if cfg.DefaultEmbedder != "fallback" {
		t.Errorf("default embedder: got %q, want %q", cfg.DefaultEmbedder, "fallback")
	}
	if cfg.Context.MaxTokens != 4000 {
		t.Errorf("context max tokens: got %d, want 4000", cfg.Context.MaxTokens)
	}
	if cfg.Context.MaxMemories != 10 {
		t.Errorf("max memories: got %d, want 10", cfg.Context.MaxMemories)
	}
	if !cfg.Output.Stream {
		t.Error("stream should default to true")
	}
	if !cfg.Output.Color {
		t.Error("color should default to true")
	}
	if cfg.Ollama.Host != "http://localhost:11434" {
		t.Errorf("ollama host: got %q", cfg.Ollama.Host)
	}
	if cfg.Ollama.EmbedModel != "all-minilm" {
		t.Errorf("ollama embed model: got %q", cfg.Ollama.EmbedModel)
	}
	if cfg.Mentor.Temperature != 0.7 {
		t.Errorf("mentor temperature: got %f, want 0.7", cfg.Mentor.Temperature)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("ANTHROPIC_API_KEY", "test-key-123")
	defer os.Unsetenv("ANTHROPIC_API_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Keys.Anthropic != "test-key-123" {
		t.Errorf("expected env override, got %q", cfg.Keys.Anthropic)
	}
}

func TestPath(t *testing.T) {
	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected config.toml, got %q", filepath.Base(path))
	}
}

func TestDBPath(t *testing.T) {
	path, err := DBPath()
	if err != nil {
		t.Fatalf("DBPath: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("sage", "sage.db")) {
		t.Errorf("got %q", path)
	}
}

func TestKey(t *testing.T) {
	cfg := Config{Keys: KeysConfig{Anthropic: "a", OpenAI: "o"}}

	if cfg.Key("claude") != "a" {
		t.Errorf("claude key: got %q", cfg.Key("claude"))
	}
	if cfg.Key("openai") != "o" {
		t.Errorf("openai key: got %q", cfg.Key("openai"))
	}
	if cfg.Key("ollama") != "" {
		t.Errorf("ollama should have no key, got %q", cfg.Key("ollama"))
	}
}
