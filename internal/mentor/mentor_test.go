package mentor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sageline/sage/internal/adapter"
	"github.com/sageline/sage/internal/db"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
)

// scriptedLLM replies with a fixed string, or fails every call.
type scriptedLLM struct {
	reply string
	fail  bool
}

func (s *scriptedLLM) Complete(_ context.Context, _ adapter.CompletionRequest) (<-chan adapter.StreamChunk, error) {
	ch := make(chan adapter.StreamChunk, 2)
	if s.fail {
		ch <- adapter.StreamChunk{Error: errors.New("model unavailable")}
	} else {
		ch <- adapter.StreamChunk{Text: s.reply}
	}
	close(ch)
	return ch, nil
}

func (s *scriptedLLM) Info() adapter.ModelInfo {
	return adapter.ModelInfo{Name: "scripted", Provider: "test"}
}

type fixture struct {
	store    *journal.Store
	memories *memory.Manager
	journey  *Retriever
	builder  *Builder
	userID   string
}

func setup(t *testing.T) fixture {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "sage.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	store := journal.NewStore(database)
	user, err := store.CreateUser(journal.User{Name: "Dana"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	memories := memory.NewManager(database, nil)
	journey := NewRetriever(store, memories)
	tokenizer, err := NewTokenizer()
	if err != nil {
		t.Fatalf("tokenizer: %v", err)
	}

	return fixture{
		store:    store,
		memories: memories,
		journey:  journey,
		builder:  NewBuilder(journey, memories, tokenizer),
		userID:   user.ID,
	}
}

func TestFormatJourney_Empty(t *testing.T) {
	got := FormatJourney(JourneySummary{PeriodDays: 30})
	if got != "No significant journey data yet." {
		t.Errorf("got %q", got)
	}
}

func TestFormatJourney_Sections(t *testing.T) {
	target := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	j := JourneySummary{
		ActiveGoals: []journal.Goal{
			{Title: "Run a marathon", Description: "Train 4x per week", TargetDate: &target},
		},
		CompletedGoals: []journal.Goal{{Title: "Read 12 books"}},
		RecentLogs:     make([]journal.HabitLog, 5),
		Achievements: []memory.SearchResult{
			{Memory: memory.Memory{Content: "finished a 10k race"}},
		},
		PeriodDays: 30,
	}

	got := FormatJourney(j)
	for _, want := range []string{
		"**Current Active Goals:**",
		"- Run a marathon: Train 4x per week (Target: 2026-09-01)",
		"**Recently Completed Goals:**",
		"- Read 12 books",
		"**Recent Achievements:**",
		"- finished a 10k race",
		"**Habit Tracking:** Logged 5 habit entries in the last 30 days",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatJourney_CapsListsAtThree(t *testing.T) {
	j := JourneySummary{
		CompletedGoals: []journal.Goal{
			{Title: "g1"}, {Title: "g2"}, {Title: "g3"}, {Title: "g4"},
		},
	}
	got := FormatJourney(j)
	if strings.Contains(got, "g4") {
		t.Errorf("completed goals not capped at 3:\n%s", got)
	}
}

func TestSummarizeThemes(t *testing.T) {
	history := []journal.Conversation{
		{Role: "user", Content: "I am training for a marathon and reading about nutrition"},
		{Role: "assistant", Content: "That sounds wonderful and meaningful"},
	}
	got := summarizeThemes(history)
	if !strings.Contains(got, "training") || !strings.Contains(got, "marathon") {
		t.Errorf("missing long keywords: %q", got)
	}
	// Assistant content and five-letter-or-shorter words are excluded.
	for _, banned := range []string{"wonderful", "about", "for"} {
		if strings.Contains(got, banned) {
			t.Errorf("unexpected keyword %q in %q", banned, got)
		}
	}
}

func TestSummarizeThemes_Empty(t *testing.T) {
	if got := summarizeThemes(nil); got != "No recent conversations" && got != "No recent user messages" {
		t.Errorf("got %q", got)
	}
	short := []journal.Conversation{{Role: "user", Content: "hi ok yes"}}
	if got := summarizeThemes(short); got != "General conversation" {
		t.Errorf("got %q", got)
	}
}

func TestParseReflection(t *testing.T) {
	content := `**Daily Reflection**
You made steady progress this week.

**Key Insights**
- Consistency beats intensity
- Sleep affects your running

**Suggestions for Today**
- Plan tomorrow's run tonight
• Write down one win
`
	insights, suggestions := parseReflection(content)
	if len(insights) != 2 {
		t.Fatalf("got %d insights: %v", len(insights), insights)
	}
	if insights[0] != "Consistency beats intensity" {
		t.Errorf("insight[0] = %q", insights[0])
	}
	if len(suggestions) != 2 {
		t.Fatalf("got %d suggestions: %v", len(suggestions), suggestions)
	}
	if suggestions[1] != "Write down one win" {
		t.Errorf("suggestion[1] = %q", suggestions[1])
	}
}

func TestBuilder_BuildIncludesHeadersAndPlaceholders(t *testing.T) {
	f := setup(t)

	got, err := f.builder.Build(context.Background(), f.userID, "how am I doing?", BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, want := range []string{
		"=== USER'S JOURNEY CONTEXT ===",
		"No significant journey data yet.",
		"=== RELEVANT PAST CONVERSATIONS ===",
		"No relevant past memories found.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestBuilder_BuildRespectsTokenCap(t *testing.T) {
	f := setup(t)

	got, err := f.builder.Build(context.Background(), f.userID, "hello", BuildOptions{MaxTokens: 10})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	tokenizer, err := NewTokenizer()
	if err != nil {
		t.Fatalf("tokenizer: %v", err)
	}
	if n := tokenizer.Count(got); n > 10 {
		t.Errorf("context is %d tokens, cap is 10", n)
	}
}

func TestAgent_ChatSavesConversation(t *testing.T) {
	f := setup(t)
	agent := NewAgent(f.store, f.memories, f.journey, f.builder, &scriptedLLM{reply: "You're doing great."})

	reply, err := agent.Chat(context.Background(), f.userID, "I want to learn Spanish")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "You're doing great." {
		t.Errorf("reply = %q", reply)
	}

	history, err := f.store.ConversationHistory(f.userID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
	if history[0].Role != "user" || history[1].Role != "assistant" {
		t.Errorf("roles = %q, %q", history[0].Role, history[1].Role)
	}

	// The user message was remembered with its categorized tag.
	memories, err := f.memories.Store().List(f.userID, memory.TagGoal)
	if err != nil {
		t.Fatalf("list memories: %v", err)
	}
	if len(memories) != 1 {
		t.Errorf("got %d goal memories, want 1", len(memories))
	}
}

func TestAgent_ChatGenerationFailure(t *testing.T) {
	f := setup(t)
	agent := NewAgent(f.store, f.memories, f.journey, f.builder, &scriptedLLM{fail: true})

	reply, err := agent.Chat(context.Background(), f.userID, "hello there")
	if err != nil {
		t.Fatalf("chat should not error on generation failure: %v", err)
	}
	if reply != apologyMessage {
		t.Errorf("reply = %q, want apology", reply)
	}

	// Nothing persisted to the conversation log.
	history, err := f.store.ConversationHistory(f.userID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("got %d messages, want 0", len(history))
	}
}

func TestAgent_ChatGenerationFailureStreamsApology(t *testing.T) {
	f := setup(t)
	agent := NewAgent(f.store, f.memories, f.journey, f.builder, &scriptedLLM{fail: true})

	var streamed strings.Builder
	agent.OnChunk = func(text string) { streamed.WriteString(text) }

	reply, err := agent.Chat(context.Background(), f.userID, "hello there")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != apologyMessage {
		t.Errorf("reply = %q, want apology", reply)
	}
	if streamed.String() != apologyMessage {
		t.Errorf("streamed = %q, want the apology to reach OnChunk", streamed.String())
	}
}

func TestAgent_ChatEmptyMessage(t *testing.T) {
	f := setup(t)
	agent := NewAgent(f.store, f.memories, f.journey, f.builder, &scriptedLLM{reply: "x"})

	if _, err := agent.Chat(context.Background(), f.userID, "   "); !errors.Is(err, journal.ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}

func TestAgent_ChatStreamsChunks(t *testing.T) {
	f := setup(t)
	agent := NewAgent(f.store, f.memories, f.journey, f.builder, &scriptedLLM{reply: "chunked reply"})

	var streamed strings.Builder
	agent.OnChunk = func(text string) { streamed.WriteString(text) }

	reply, err := agent.Chat(context.Background(), f.userID, "stream please")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if streamed.String() != reply {
		t.Errorf("streamed %q, returned %q", streamed.String(), reply)
	}
}

func TestReflectionAgent_GenerateDaily(t *testing.T) {
	f := setup(t)
	content := `**Daily Reflection**
A good week overall.

**Key Insights**
- You kept your streak alive

**Suggestions for Today**
- Take a rest day
`
	agent := NewReflectionAgent(f.store, f.journey, &scriptedLLM{reply: content})

	reflection, err := agent.GenerateDaily(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if reflection.ID == "" {
		t.Error("reflection not persisted")
	}
	if len(reflection.KeyInsights) != 1 || reflection.KeyInsights[0] != "You kept your streak alive" {
		t.Errorf("insights = %v", reflection.KeyInsights)
	}
	if len(reflection.Suggestions) != 1 || reflection.Suggestions[0] != "Take a rest day" {
		t.Errorf("suggestions = %v", reflection.Suggestions)
	}

	stored, err := f.store.ListReflections(f.userID, 1)
	if err != nil {
		t.Fatalf("list reflections: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("got %d stored reflections, want 1", len(stored))
	}
}

func TestReflectionAgent_GenerationFailure(t *testing.T) {
	f := setup(t)
	agent := NewReflectionAgent(f.store, f.journey, &scriptedLLM{fail: true})

	if _, err := agent.GenerateDaily(context.Background(), f.userID); err == nil {
		t.Fatal("expected error")
	}
	stored, err := f.store.ListReflections(f.userID, 1)
	if err != nil {
		t.Fatalf("list reflections: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("failed generation persisted %d reflections", len(stored))
	}
}
