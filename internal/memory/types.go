// Package memory stores categorized user memories and retrieves them by
// semantic similarity over sqlite-vec embeddings.
package memory

import (
	"strings"
	"time"
)

// Tag classifies a stored memory.
type Tag string

const (
	TagGoal         Tag = "goal"
	TagStruggle     Tag = "struggle"
	TagAchievement  Tag = "achievement"
	TagReflection   Tag = "reflection"
	TagConversation Tag = "conversation"
	TagHabitLog     Tag = "habit_log"
)

// ValidTag returns true if t is a recognised memory tag.
func ValidTag(t Tag) bool {
	switch t {
	case TagGoal, TagStruggle, TagAchievement, TagReflection, TagConversation, TagHabitLog:
		return true
	}
	return false
}

// Memory is a single stored memory record.
type Memory struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Tag       Tag       `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult pairs a memory with its similarity to a query.
type SearchResult struct {
	Memory     Memory  `json:"memory"`
	Similarity float64 `json:"similarity"`
}

// Keyword sets for Categorize, checked in priority order.
var (
	goalKeywords        = []string{"goal", "want to", "plan to", "aim to", "target"}
	struggleKeywords    = []string{"struggle", "difficult", "hard", "challenge", "problem"}
	achievementKeywords = []string{"achieved", "completed", "accomplished", "finished", "success", "won"}
	habitLogKeywords    = []string{"habit", "tracked", "logged", "daily"}
)

// Categorize assigns a tag to free text by keyword matching. The sets are
// checked in a fixed priority order (goal, struggle, achievement, habit_log)
// and the first match wins. Text matching none of them is a conversation.
func Categorize(text string) Tag {
	lower := strings.ToLower(text)

	if containsAny(lower, goalKeywords) {
		return TagGoal
	}
	if containsAny(lower, struggleKeywords) {
		return TagStruggle
	}
	if containsAny(lower, achievementKeywords) {
		return TagAchievement
	}
	if containsAny(lower, habitLogKeywords) {
		return TagHabitLog
	}
	return TagConversation
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
