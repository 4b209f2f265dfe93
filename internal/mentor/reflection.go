package mentor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sageline/sage/internal/adapter"
	"github.com/sageline/sage/internal/journal"
)

const reflectionSystemPrompt = `You are a reflective personal mentor AI specializing in generating insightful daily reflections.

Your task is to:
1. Analyze the user's recent journey, activities, and progress
2. Identify key patterns, wins, and growth areas
3. Generate a meaningful reflection that connects past and present
4. Provide 3-5 actionable suggestions or motivational nudges
5. Highlight their strengths and progress

Format your response as:
**Daily Reflection**
[2-3 paragraphs of thoughtful reflection]

**Key Insights**
- [Insight 1]
- [Insight 2]
- [Insight 3]

**Suggestions for Today**
- [Actionable suggestion 1]
- [Actionable suggestion 2]
- [Actionable suggestion 3]

Be encouraging, specific, and connect to their stated goals and values.`

const (
	reflectionLookbackDays = 7
	reflectionHistoryLimit = 20
	themeMessageWindow     = 5
	themeKeywordMinLen     = 6 // strictly more than 5 characters
	themeKeywordLimit      = 10
)

// ReflectionAgent generates daily reflections from the user's recent journey.
type ReflectionAgent struct {
	store   *journal.Store
	journey *Retriever
	llm     adapter.LLMAdapter

	Model       string
	MaxTokens   int
	Temperature float64
}

// NewReflectionAgent creates a ReflectionAgent.
func NewReflectionAgent(store *journal.Store, journey *Retriever, llm adapter.LLMAdapter) *ReflectionAgent {
	return &ReflectionAgent{
		store:   store,
		journey: journey,
		llm:     llm,
	}
}

// GenerateDaily produces and persists a reflection over the last week.
func (r *ReflectionAgent) GenerateDaily(ctx context.Context, userID string) (journal.Reflection, error) {
	summary, err := r.journey.Summarize(ctx, userID, reflectionLookbackDays)
	if err != nil {
		return journal.Reflection{}, err
	}

	history, err := r.store.ConversationHistory(userID, reflectionHistoryLimit)
	if err != nil {
		return journal.Reflection{}, fmt.Errorf("mentor: reflection history: %w", err)
	}

	prompt := fmt.Sprintf(`Based on this user's recent journey, generate a meaningful daily reflection:

%s

Recent conversation themes: %s

Generate a reflection that acknowledges their progress, addresses challenges, and provides encouragement.`,
		FormatJourney(summary), summarizeThemes(history))

	ch, err := r.llm.Complete(ctx, adapter.CompletionRequest{
		SystemPrompt: reflectionSystemPrompt,
		UserMessage:  prompt,
		Model:        r.Model,
		MaxTokens:    r.MaxTokens,
		Temperature:  r.Temperature,
	})
	if err != nil {
		return journal.Reflection{}, fmt.Errorf("mentor: generate reflection: %w", err)
	}

	var b strings.Builder
	for chunk := range ch {
		if chunk.Error != nil {
			return journal.Reflection{}, fmt.Errorf("mentor: generate reflection: %w", chunk.Error)
		}
		b.WriteString(chunk.Text)
	}
	content := b.String()
	if content == "" {
		return journal.Reflection{}, fmt.Errorf("mentor: empty reflection from %s", r.llm.Info().Provider)
	}

	insights, suggestions := parseReflection(content)
	reflection, err := r.store.CreateReflection(journal.Reflection{
		UserID:      userID,
		Content:     content,
		KeyInsights: insights,
		Suggestions: suggestions,
	})
	if err != nil {
		return journal.Reflection{}, fmt.Errorf("mentor: save reflection: %w", err)
	}
	r.journey.Invalidate(userID)
	return reflection, nil
}

// summarizeThemes extracts distinctive words from the user's last few
// messages. Words of five characters or fewer are dropped.
func summarizeThemes(history []journal.Conversation) string {
	var userMessages []string
	for _, c := range history {
		if c.Role == "user" {
			userMessages = append(userMessages, c.Content)
		}
	}
	if len(userMessages) == 0 {
		return "No recent user messages"
	}
	if len(userMessages) > themeMessageWindow {
		userMessages = userMessages[len(userMessages)-themeMessageWindow:]
	}

	seen := make(map[string]struct{})
	for _, msg := range userMessages {
		for _, w := range strings.Fields(strings.ToLower(msg)) {
			if len(w) >= themeKeywordMinLen {
				seen[w] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return "General conversation"
	}

	keywords := make([]string, 0, len(seen))
	for w := range seen {
		keywords = append(keywords, w)
	}
	sort.Strings(keywords)
	if len(keywords) > themeKeywordLimit {
		keywords = keywords[:themeKeywordLimit]
	}
	return strings.Join(keywords, ", ")
}

// parseReflection pulls the bullet items out of the Key Insights and
// Suggestions sections of a generated reflection.
func parseReflection(content string) (insights, suggestions []string) {
	section := ""
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "Key Insights"):
			section = "insights"
		case strings.Contains(line, "Suggestions"):
			section = "suggestions"
		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•"):
			item := strings.TrimSpace(strings.TrimLeft(line, "-•"))
			if item == "" {
				continue
			}
			switch section {
			case "insights":
				insights = append(insights, item)
			case "suggestions":
				suggestions = append(suggestions, item)
			}
		}
	}
	return insights, suggestions
}
