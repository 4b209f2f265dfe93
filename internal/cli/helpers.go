package cli

import (
	"fmt"
	"os"

	"github.com/sageline/sage/internal/adapter"
	"github.com/sageline/sage/internal/config"
	"github.com/sageline/sage/internal/db"
	"github.com/sageline/sage/internal/journal"
)

// openJournal opens the journal database at its configured location. The
// caller owns the returned handle and must Close it.
func openJournal() (*db.DB, error) {
	path, err := config.DBPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no journal found. Run `sage init` first")
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}

// currentUser resolves the journal owner. Sage is single-user; the first
// profile is the profile.
func currentUser(store *journal.Store) (journal.User, error) {
	user, err := store.FirstUser()
	if err != nil {
		return journal.User{}, fmt.Errorf("no profile yet. Run `sage init` first")
	}
	return user, nil
}

// buildLLM constructs the completion adapter named by the config.
func buildLLM(cfg config.Config) (adapter.LLMAdapter, error) {
	llm, err := adapter.New(cfg.DefaultModel, cfg.Key(cfg.DefaultModel), cfg.Ollama.Host)
	if err != nil {
		return nil, fmt.Errorf("init LLM adapter: %w", err)
	}
	return llm, nil
}

// completionModel returns the model name to request, if the provider needs
// one named explicitly.
func completionModel(cfg config.Config) string {
	if cfg.DefaultModel == adapter.ProviderOllama {
		return cfg.Ollama.CompletionModel
	}
	return ""
}

// buildEmbedder constructs the configured embedder. Failure is non-fatal:
// a nil embedder makes the memory manager fall back to hash vectors.
func buildEmbedder(cfg config.Config) adapter.Embedder {
	emb, err := adapter.NewEmbedder(cfg.DefaultEmbedder, cfg.Keys.OpenAI, cfg.Ollama.Host, cfg.Ollama.EmbedModel)
	if err != nil {
		return nil
	}
	return emb
}
