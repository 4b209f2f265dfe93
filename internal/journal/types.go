// Package journal defines the persistent entities of a user's growth journal.
package journal

import "time"

// Frequency is the cadence a habit is meant to be performed at.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ValidFrequency returns true if f is a recognised habit frequency.
func ValidFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// GoalStatus tracks the lifecycle of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
)

// ValidGoalStatus returns true if s is a recognised goal status.
func ValidGoalStatus(s GoalStatus) bool {
	switch s {
	case GoalActive, GoalCompleted, GoalAbandoned:
		return true
	}
	return false
}

// User is a journal owner.
type User struct {
	ID          string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Timezone    string    `json:"timezone"`
	Preferences string    `json:"preferences"` // JSON blob
	CreatedAt   time.Time `json:"created_at"`
}

// Habit is a tracked behaviour. Created once; only is_active is mutated.
type Habit struct {
	ID          string    `json:"habit_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Frequency   Frequency `json:"frequency"`
	TargetValue float64   `json:"target_value,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// HabitLog is a single immutable log entry for a habit.
type HabitLog struct {
	ID       string    `json:"log_id"`
	HabitID  string    `json:"habit_id"`
	UserID   string    `json:"user_id"`
	Value    float64   `json:"value"`
	Notes    string    `json:"notes,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}

// Goal is a longer-term objective.
type Goal struct {
	ID          string     `json:"goal_id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	Status      GoalStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Reflection is a generated daily reflection.
type Reflection struct {
	ID             string    `json:"reflection_id"`
	UserID         string    `json:"user_id"`
	Content        string    `json:"content"`
	SentimentScore float64   `json:"sentiment_score,omitempty"`
	KeyInsights    []string  `json:"key_insights,omitempty"`
	Suggestions    []string  `json:"suggestions,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation is a single chat message.
type Conversation struct {
	ID        string    `json:"message_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
