package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/sageline/sage/internal/adapter"
	"github.com/sageline/sage/internal/db"
)

// overfetchFactor compensates for vec_memories being shared across users and
// tags. Vector search cannot filter by either, so Search fetches extra
// matches and filters them against the memories table afterwards.
const overfetchFactor = 4

// Manager ties the memory store, the vector index and an embedder together.
type Manager struct {
	store    *Store
	vectors  *VectorStore
	embedder *adapter.ResilientEmbedder

	// MinSimilarity drops matches below this similarity from search
	// results. Zero keeps everything.
	MinSimilarity float64
}

// NewManager creates a Manager. The embedder may be nil, in which case every
// embedding is produced by the deterministic hash fallback.
func NewManager(database *db.DB, embedder adapter.Embedder) *Manager {
	return &Manager{
		store:    NewStore(database),
		vectors:  NewVectorStore(database),
		embedder: adapter.NewResilientEmbedder(embedder),
	}
}

// Store exposes the underlying memory store for direct listing and counting.
func (m *Manager) Store() *Store {
	return m.store
}

// Remember categorizes (when tag is empty), persists and indexes a memory.
// The returned degraded flag is true when the embedding came from the hash
// fallback instead of a real provider, or when the vector index was
// unavailable. The memory row itself is always kept: a missing index costs
// recall, not the memory.
func (m *Manager) Remember(ctx context.Context, userID, content string, tag Tag) (Memory, bool, error) {
	if tag == "" {
		tag = Categorize(content)
	}

	mem, err := m.store.Insert(userID, content, tag)
	if err != nil {
		return Memory{}, false, err
	}

	res := m.embedder.EmbedAll(ctx, []string{content})
	degraded := res.Degraded
	if err := m.vectors.Upsert(mem.ID, res.Vectors[0]); err != nil {
		degraded = true
	}
	return mem, degraded, nil
}

// Forget removes a memory and its embedding.
func (m *Manager) Forget(id string) error {
	if err := m.store.Delete(id); err != nil {
		return err
	}
	return m.vectors.Delete(id)
}

// Search returns the user's memories most similar to query, best first,
// optionally restricted to a single tag. Matches belonging to other users
// are dropped.
func (m *Manager) Search(ctx context.Context, userID, query string, filter Tag, limit int) ([]SearchResult, error) {
	if limit <= 0 || query == "" {
		return nil, nil
	}

	res := m.embedder.EmbedAll(ctx, []string{query})
	matches, err := m.vectors.Search(res.Vectors[0], limit*overfetchFactor, m.MinSimilarity)
	if err != nil {
		return nil, fmt.Errorf("memory: search: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]string, len(matches))
	for i, match := range matches {
		ids[i] = match.MemoryID
	}
	byID, err := m.store.GetMany(ids)
	if err != nil {
		return nil, fmt.Errorf("memory: search: %w", err)
	}

	var out []SearchResult
	for _, match := range matches {
		mem, ok := byID[match.MemoryID]
		if !ok || mem.UserID != userID {
			continue
		}
		if filter != "" && mem.Tag != filter {
			continue
		}
		out = append(out, SearchResult{Memory: mem, Similarity: match.Similarity})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ContextualMemories searches for memories relevant to the current context
// and formats them as a numbered block for LLM consumption. With no matches
// it returns a fixed placeholder rather than an empty string.
func (m *Manager) ContextualMemories(ctx context.Context, userID, current string, limit int) (string, error) {
	results, err := m.Search(ctx, userID, current, "", limit)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No relevant past memories found.", nil
	}

	parts := []string{"Relevant past memories:"}
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("\n%d. [%s] (%s): %s",
			i+1,
			strings.ToUpper(string(r.Memory.Tag)),
			r.Memory.CreatedAt.Format("2006-01-02 15:04"),
			r.Memory.Content,
		))
	}
	return strings.Join(parts, "\n"), nil
}

// Reindex re-embeds every memory of a user and rewrites its vector. Returns
// the number of reindexed memories and whether the batch was degraded.
// progress, if non-nil, is called after each upsert with (done, total).
func (m *Manager) Reindex(ctx context.Context, userID string, progress func(done, total int)) (int, bool, error) {
	memories, err := m.store.List(userID, "")
	if err != nil {
		return 0, false, err
	}
	if len(memories) == 0 {
		return 0, false, nil
	}

	texts := make([]string, len(memories))
	for i, mem := range memories {
		texts[i] = mem.Content
	}
	res := m.embedder.EmbedAll(ctx, texts)

	degraded := res.Degraded
	for i, mem := range memories {
		if err := m.vectors.Upsert(mem.ID, res.Vectors[i]); err != nil {
			degraded = true
		}
		if progress != nil {
			progress(i+1, len(memories))
		}
	}
	return len(memories), degraded, nil
}
