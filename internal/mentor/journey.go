// Package mentor runs the LLM-backed mentor and reflection agents over a
// user's journal and memories.
package mentor

import (
	"context"
	"fmt"
	"time"

	"github.com/sageline/sage/internal/cache"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
)

// journeyCacheTTL bounds how stale a cached journey summary may be. Chat
// sessions rebuild context on every turn, so the summary is cached briefly
// instead of recomputed.
const journeyCacheTTL = 5 * time.Minute

// JourneySummary is a snapshot of a user's recent progress.
type JourneySummary struct {
	ActiveGoals    []journal.Goal
	CompletedGoals []journal.Goal
	RecentLogs     []journal.HabitLog
	Reflections    []journal.Reflection
	Achievements   []memory.SearchResult
	Struggles      []memory.SearchResult
	PeriodDays     int
}

// Retriever gathers journey summaries from the journal and memory stores.
type Retriever struct {
	store    *journal.Store
	memories *memory.Manager
	cache    *cache.Cache
}

// NewRetriever creates a Retriever.
func NewRetriever(store *journal.Store, memories *memory.Manager) *Retriever {
	return &Retriever{
		store:    store,
		memories: memories,
		cache:    cache.New(),
	}
}

// Summarize collects goals, recent habit logs, reflections and tagged
// memories for the last days days. Summaries are cached per user and window.
func (r *Retriever) Summarize(ctx context.Context, userID string, days int) (JourneySummary, error) {
	key := fmt.Sprintf("journey:%s:%d", userID, days)
	if v, ok := r.cache.Get(key); ok {
		return v.(JourneySummary), nil
	}

	summary := JourneySummary{PeriodDays: days}

	active, err := r.store.ListGoals(userID, journal.GoalActive)
	if err != nil {
		return summary, fmt.Errorf("mentor: journey goals: %w", err)
	}
	summary.ActiveGoals = active

	completed, err := r.store.ListGoals(userID, journal.GoalCompleted)
	if err != nil {
		return summary, fmt.Errorf("mentor: journey goals: %w", err)
	}
	summary.CompletedGoals = completed

	logs, err := r.store.ListHabitLogs(userID, "", days)
	if err != nil {
		return summary, fmt.Errorf("mentor: journey logs: %w", err)
	}
	summary.RecentLogs = logs

	reflections, err := r.store.ListReflections(userID, days)
	if err != nil {
		return summary, fmt.Errorf("mentor: journey reflections: %w", err)
	}
	summary.Reflections = reflections

	// Retrieval failures degrade to empty sections rather than failing the
	// whole summary.
	achievements, err := r.memories.Search(ctx, userID, "achievements and successes", memory.TagAchievement, 5)
	if err == nil {
		summary.Achievements = achievements
	}
	struggles, err := r.memories.Search(ctx, userID, "challenges and difficulties", memory.TagStruggle, 5)
	if err == nil {
		summary.Struggles = struggles
	}

	r.cache.Set(key, summary, journeyCacheTTL)
	return summary, nil
}

// Invalidate drops any cached summaries for a user. Long-lived processes
// call it after journey writes (the MCP tools, the reflection agent); the
// chat loop relies on the TTL instead.
func (r *Retriever) Invalidate(userID string) {
	for _, days := range []int{7, 30} {
		r.cache.Delete(fmt.Sprintf("journey:%s:%d", userID, days))
	}
}
