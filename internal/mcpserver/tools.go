package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sageline/sage/internal/habit"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
	"github.com/sageline/sage/internal/mentor"
)

// RememberTool handles the remember_memory MCP tool.
type RememberTool struct {
	store    *journal.Store
	memories *memory.Manager
	journey  *mentor.Retriever
}

func (t *RememberTool) Definition() mcp.Tool {
	return mcp.NewTool("remember_memory",
		mcp.WithDescription(
			"Store something the user shared about their personal growth journey. "+
				"Call this when the user mentions a goal, a struggle, an achievement, or anything worth recalling later.",
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The text to remember, in the user's own words"),
		),
		mcp.WithString("tag",
			mcp.Description("Category: goal, struggle, achievement, reflection, conversation, habit_log. Omit to categorize automatically."),
		),
	)
}

func (t *RememberTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}
	tag := memory.Tag(req.GetString("tag", ""))
	if tag != "" && !memory.ValidTag(tag) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown tag %q", tag)), nil
	}

	user, err := t.store.FirstUser()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mem, degraded, err := t.memories.Remember(ctx, user.ID, content, tag)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remember: %v", err)), nil
	}
	t.journey.Invalidate(user.ID)

	response := fmt.Sprintf("Remembered as %s (ID %s)", mem.Tag, mem.ID)
	if degraded {
		response += "\nNote: stored with a fallback embedding; semantic recall will be limited."
	}
	return mcp.NewToolResultText(response), nil
}

// SearchTool handles the search_memories MCP tool.
type SearchTool struct {
	store    *journal.Store
	memories *memory.Manager
}

func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search_memories",
		mcp.WithDescription("Search the user's stored memories by semantic similarity."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("What to look for"),
		),
		mcp.WithString("tag",
			mcp.Description("Restrict to one category: goal, struggle, achievement, reflection, conversation, habit_log"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 5)"),
		),
	)
}

func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}
	tag := memory.Tag(req.GetString("tag", ""))
	if tag != "" && !memory.ValidTag(tag) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown tag %q", tag)), nil
	}
	limit := int(req.GetFloat("limit", 5))

	user, err := t.store.FirstUser()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results, err := t.memories.Search(ctx, user.ID, query, tag, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No matching memories."), nil
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. [%s] (%.2f) %s\n", i+1, r.Memory.Tag, r.Similarity, r.Memory.Content)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// LogHabitTool handles the log_habit MCP tool.
type LogHabitTool struct {
	store   *journal.Store
	tracker *habit.Tracker
	journey *mentor.Retriever
}

func (t *LogHabitTool) Definition() mcp.Tool {
	return mcp.NewTool("log_habit",
		mcp.WithDescription("Record a completion for one of the user's habits."),
		mcp.WithString("habit",
			mcp.Required(),
			mcp.Description("Name of the habit (as created in the journal)"),
		),
		mcp.WithNumber("value",
			mcp.Description("Measured value for this entry (default 1)"),
		),
		mcp.WithString("notes",
			mcp.Description("Optional free-form note"),
		),
	)
}

func (t *LogHabitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("habit", "")
	if name == "" {
		return mcp.NewToolResultError("'habit' is required"), nil
	}
	value := req.GetFloat("value", 1)
	notes := req.GetString("notes", "")

	user, err := t.store.FirstUser()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h, err := findHabit(t.store, user.ID, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, streak, err := t.tracker.LogHabit(user.ID, h.ID, value, notes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to log: %v", err)), nil
	}
	t.journey.Invalidate(user.ID)
	return mcp.NewToolResultText(fmt.Sprintf("Logged %q (value %g). Current streak: %d days.", h.Name, value, streak)), nil
}

// HabitStatsTool handles the habit_stats MCP tool.
type HabitStatsTool struct {
	store   *journal.Store
	tracker *habit.Tracker
}

func (t *HabitStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("habit_stats",
		mcp.WithDescription("Get streak, completion rate and trend statistics for a habit."),
		mcp.WithString("habit",
			mcp.Required(),
			mcp.Description("Name of the habit"),
		),
		mcp.WithNumber("window_days",
			mcp.Description("Statistics window in days (default 30)"),
		),
	)
}

func (t *HabitStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("habit", "")
	if name == "" {
		return mcp.NewToolResultError("'habit' is required"), nil
	}
	window := int(req.GetFloat("window_days", 30))

	user, err := t.store.FirstUser()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h, err := findHabit(t.store, user.ID, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stats, err := t.tracker.Statistics(user.ID, h.ID, window)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compute statistics: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (last %d days)\n", h.Name, window)
	fmt.Fprintf(&b, "Logs: %d\n", stats.TotalLogs)
	fmt.Fprintf(&b, "Streak: %d days\n", stats.Streak)
	fmt.Fprintf(&b, "Completion rate: %.1f%%\n", stats.CompletionRate)
	fmt.Fprintf(&b, "Average: %.2f (min %.2f, max %.2f)\n", stats.AverageValue, stats.MinValue, stats.MaxValue)
	fmt.Fprintf(&b, "Trend: %s\n", stats.Trend)
	return mcp.NewToolResultText(b.String()), nil
}

// JourneyTool handles the journey_summary MCP tool.
type JourneyTool struct {
	store   *journal.Store
	journey *mentor.Retriever
}

func (t *JourneyTool) Definition() mcp.Tool {
	return mcp.NewTool("journey_summary",
		mcp.WithDescription("Get a formatted overview of the user's goals, habits and recent progress."),
		mcp.WithNumber("days",
			mcp.Description("Lookback window in days (default 30)"),
		),
	)
}

func (t *JourneyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := int(req.GetFloat("days", 30))

	user, err := t.store.FirstUser()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := t.journey.Summarize(ctx, user.ID, days)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to summarize: %v", err)), nil
	}
	return mcp.NewToolResultText(mentor.FormatJourney(summary)), nil
}

// findHabit resolves a habit by case-insensitive name.
func findHabit(store *journal.Store, userID, name string) (journal.Habit, error) {
	habits, err := store.ListHabits(userID, false)
	if err != nil {
		return journal.Habit{}, err
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, name) {
			return h, nil
		}
	}
	return journal.Habit{}, fmt.Errorf("no habit named %q: %w", name, journal.ErrNotFound)
}
