// Package habit derives streaks and statistics from the habit log.
package habit

import (
	"fmt"
	"time"

	"github.com/sageline/sage/internal/journal"
)

// streakLookbackDays bounds how far back the streak walk can reach.
const streakLookbackDays = 365

const dateLayout = "2006-01-02"

// Trend classifies the direction of recent habit values.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendNeutral   Trend = "neutral"
)

// Statistics summarises a habit over a rolling window.
type Statistics struct {
	TotalLogs      int       `json:"total_logs"`
	AverageValue   float64   `json:"average_value"`
	MinValue       float64   `json:"min_value"`
	MaxValue       float64   `json:"max_value"`
	Streak         int       `json:"streak"`
	CompletionRate float64   `json:"completion_rate"`
	Trend          Trend     `json:"trend"`
	RecentValues   []float64 `json:"recent_values,omitempty"`
}

// Tracker computes streaks and statistics over the journal's habit log.
type Tracker struct {
	store *journal.Store

	// OnMilestone, when set, is invoked after a log lands on a streak that
	// is a multiple of 7 days.
	OnMilestone func(habit journal.Habit, streak int)

	// now is injectable for tests.
	now func() time.Time
}

// NewTracker creates a Tracker over the given store.
func NewTracker(store *journal.Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// LogHabit appends an immutable log entry and returns it together with the
// habit's updated streak.
func (t *Tracker) LogHabit(userID, habitID string, value float64, notes string) (journal.HabitLog, int, error) {
	habit, err := t.store.GetHabit(habitID)
	if err != nil {
		return journal.HabitLog{}, 0, err
	}
	if habit.UserID != userID {
		return journal.HabitLog{}, 0, fmt.Errorf("%w: habit %q", journal.ErrNotFound, habitID)
	}

	log, err := t.store.InsertHabitLog(journal.HabitLog{
		HabitID: habitID,
		UserID:  userID,
		Value:   value,
		Notes:   notes,
	})
	if err != nil {
		return journal.HabitLog{}, 0, err
	}

	streak, err := t.CalculateStreak(userID, habitID)
	if err != nil {
		return log, 0, err
	}
	if t.OnMilestone != nil && streak > 0 && streak%7 == 0 {
		t.OnMilestone(habit, streak)
	}
	return log, streak, nil
}

// CalculateStreak returns the count of consecutive calendar days, ending
// today, with at least one log for the habit. Multiple logs on the same day
// count once. A log today but not yesterday yields 1; no log today yields 0.
//
// The walk is daily regardless of the habit's frequency; weekly and monthly
// habits are scored on the same cadence.
func (t *Tracker) CalculateStreak(userID, habitID string) (int, error) {
	logs, err := t.store.ListHabitLogs(userID, habitID, streakLookbackDays)
	if err != nil {
		return 0, err
	}
	if len(logs) == 0 {
		return 0, nil
	}

	logged := make(map[string]struct{}, len(logs))
	for _, l := range logs {
		logged[l.LoggedAt.Local().Format(dateLayout)] = struct{}{}
	}

	streak := 0
	day := t.now()
	for {
		if _, ok := logged[day.Format(dateLayout)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

// Statistics aggregates a habit's logs over the last windowDays days.
// Zero logs short-circuit to a zeroed record with a neutral trend.
func (t *Tracker) Statistics(userID, habitID string, windowDays int) (Statistics, error) {
	if windowDays <= 0 {
		return Statistics{}, fmt.Errorf("%w: window must be at least 1 day, got %d", journal.ErrInvalid, windowDays)
	}

	logs, err := t.store.ListHabitLogs(userID, habitID, windowDays)
	if err != nil {
		return Statistics{}, err
	}
	if len(logs) == 0 {
		return Statistics{Trend: TrendNeutral}, nil
	}

	// Logs arrive newest first; work over chronologically ascending values.
	values := make([]float64, len(logs))
	dates := make(map[string]struct{}, len(logs))
	for i, l := range logs {
		values[len(logs)-1-i] = l.Value
		dates[l.LoggedAt.Local().Format(dateLayout)] = struct{}{}
	}

	minVal, maxVal, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
		sum += v
	}

	streak, err := t.CalculateStreak(userID, habitID)
	if err != nil {
		return Statistics{}, err
	}

	recent := values
	if len(recent) > 7 {
		recent = recent[len(recent)-7:]
	}

	return Statistics{
		TotalLogs:      len(logs),
		AverageValue:   sum / float64(len(values)),
		MinValue:       minVal,
		MaxValue:       maxVal,
		Streak:         streak,
		CompletionRate: float64(len(dates)) / float64(windowDays) * 100,
		Trend:          classifyTrend(values),
		RecentValues:   recent,
	}, nil
}

// classifyTrend compares the means of the two halves of a chronologically
// ascending value list. The 1.1x / 0.9x thresholds are load-bearing.
func classifyTrend(values []float64) Trend {
	mid := len(values) / 2
	if mid == 0 {
		return TrendNeutral
	}
	first := mean(values[:mid])
	second := mean(values[mid:])
	switch {
	case second > first*1.1:
		return TrendImproving
	case second < first*0.9:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
