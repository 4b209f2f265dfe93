package habit

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/sageline/sage/internal/db"
	"github.com/sageline/sage/internal/journal"
)

func setupTracker(t *testing.T) (*journal.Store, *Tracker, journal.User, journal.Habit) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := journal.NewStore(database)
	user, err := store.CreateUser(journal.User{Name: "dana"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	h, err := store.CreateHabit(journal.Habit{UserID: user.ID, Name: "run", Unit: "km"})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	return store, NewTracker(store), user, h
}

// logOnDay inserts a log `daysAgo` days before now at midday local time, which
// keeps the calendar date stable across the UTC round trip.
func logOnDay(t *testing.T, store *journal.Store, user journal.User, habitID string, daysAgo int, value float64) {
	t.Helper()
	now := time.Now()
	at := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.Local).AddDate(0, 0, -daysAgo)
	_, err := store.InsertHabitLog(journal.HabitLog{
		HabitID:  habitID,
		UserID:   user.ID,
		Value:    value,
		LoggedAt: at,
	})
	if err != nil {
		t.Fatalf("InsertHabitLog: %v", err)
	}
}

func TestCalculateStreak_ZeroLogs(t *testing.T) {
	_, tracker, user, h := setupTracker(t)

	streak, err := tracker.CalculateStreak(user.ID, h.ID)
	if err != nil {
		t.Fatalf("CalculateStreak: %v", err)
	}
	if streak != 0 {
		t.Errorf("streak: got %d, want 0", streak)
	}
}

func TestCalculateStreak_ConsecutiveDays(t *testing.T) {
	store, tracker, user, h := setupTracker(t)

	for day := 0; day < 5; day++ {
		logOnDay(t, store, user, h.ID, day, 1)
	}

	streak, err := tracker.CalculateStreak(user.ID, h.ID)
	if err != nil {
		t.Fatalf("CalculateStreak: %v", err)
	}
	if streak != 5 {
		t.Errorf("streak: got %d, want 5", streak)
	}
}

func TestCalculateStreak_GapStopsWalk(t *testing.T) {
	store, tracker, user, h := setupTracker(t)

	// Today, yesterday, then a gap, then two older days.
	for _, day := range []int{0, 1, 3, 4} {
		logOnDay(t, store, user, h.ID, day, 1)
	}

	streak, _ := tracker.CalculateStreak(user.ID, h.ID)
	if streak != 2 {
		t.Errorf("streak: got %d, want 2", streak)
	}
}

func TestCalculateStreak_TodayOnly(t *testing.T) {
	store, tracker, user, h := setupTracker(t)
	logOnDay(t, store, user, h.ID, 0, 1)

	streak, _ := tracker.CalculateStreak(user.ID, h.ID)
	if streak != 1 {
		t.Errorf("streak: got %d, want 1", streak)
	}
}

func TestCalculateStreak_SameDayCountsOnce(t *testing.T) {
	store, tracker, user, h := setupTracker(t)
	logOnDay(t, store, user, h.ID, 0, 1)
	logOnDay(t, store, user, h.ID, 0, 2)
	logOnDay(t, store, user, h.ID, 0, 3)

	streak, _ := tracker.CalculateStreak(user.ID, h.ID)
	if streak != 1 {
		t.Errorf("streak: got %d, want 1", streak)
	}
}

func TestStatistics_ZeroLogs(t *testing.T) {
	_, tracker, user, h := setupTracker(t)

	stats, err := tracker.Statistics(user.ID, h.ID, 30)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalLogs != 0 || stats.AverageValue != 0 || stats.Streak != 0 || stats.CompletionRate != 0 {
		t.Errorf("expected zeroed record, got %+v", stats)
	}
	if stats.Trend != TrendNeutral {
		t.Errorf("trend: got %q, want neutral", stats.Trend)
	}
}

func TestStatistics_InvalidWindow(t *testing.T) {
	_, tracker, user, h := setupTracker(t)

	if _, err := tracker.Statistics(user.ID, h.ID, 0); !errors.Is(err, journal.ErrInvalid) {
		t.Errorf("expected ErrInvalid for zero window, got %v", err)
	}
	if _, err := tracker.Statistics(user.ID, h.ID, -3); !errors.Is(err, journal.ErrInvalid) {
		t.Errorf("expected ErrInvalid for negative window, got %v", err)
	}
}

func TestStatistics_CompletionRate(t *testing.T) {
	store, tracker, user, h := setupTracker(t)

	// 3 distinct days (one logged twice) inside a 30-day window.
	logOnDay(t, store, user, h.ID, 0, 1)
	logOnDay(t, store, user, h.ID, 0, 2)
	logOnDay(t, store, user, h.ID, 1, 1)
	logOnDay(t, store, user, h.ID, 2, 1)

	stats, err := tracker.Statistics(user.ID, h.ID, 30)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if math.Abs(stats.CompletionRate-10.0) > 1e-9 {
		t.Errorf("completion rate: got %v, want 10.0", stats.CompletionRate)
	}
	if stats.TotalLogs != 4 {
		t.Errorf("total logs: got %d, want 4", stats.TotalLogs)
	}
}

func TestStatistics_MinMaxAverage(t *testing.T) {
	store, tracker, user, h := setupTracker(t)

	for i, v := range []float64{2, 8, 5} {
		logOnDay(t, store, user, h.ID, 2-i, v)
	}

	stats, err := tracker.Statistics(user.ID, h.ID, 30)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.MinValue != 2 || stats.MaxValue != 8 {
		t.Errorf("min/max: got %v/%v", stats.MinValue, stats.MaxValue)
	}
	if math.Abs(stats.AverageValue-5.0) > 1e-9 {
		t.Errorf("average: got %v, want 5.0", stats.AverageValue)
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Trend
	}{
		{"improving", []float64{10, 10, 10, 20, 20, 20}, TrendImproving},
		{"declining", []float64{20, 20, 20, 10, 10, 10}, TrendDeclining},
		{"stable", []float64{10, 11, 10, 11}, TrendStable},
		{"single value", []float64{42}, TrendNeutral},
		{"empty", nil, TrendNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTrend(tt.values); got != tt.want {
				t.Errorf("classifyTrend(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestStatistics_TrendFromLogs(t *testing.T) {
	store, tracker, user, h := setupTracker(t)

	// Ascending values over consecutive minutes today: the second half mean
	// clears the 1.1x threshold.
	base := time.Date(time.Now().Year(), time.Now().Month(), time.Now().Day(), 12, 0, 0, 0, time.Local)
	for i, v := range []float64{10, 10, 10, 20, 20, 20} {
		_, err := store.InsertHabitLog(journal.HabitLog{
			HabitID:  h.ID,
			UserID:   user.ID,
			Value:    v,
			LoggedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("InsertHabitLog: %v", err)
		}
	}

	stats, err := tracker.Statistics(user.ID, h.ID, 30)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.Trend != TrendImproving {
		t.Errorf("trend: got %q, want improving", stats.Trend)
	}
}

func TestLogHabit_MilestoneCallback(t *testing.T) {
	store, tracker, user, h := setupTracker(t)

	// Six prior consecutive days; the seventh lands via LogHabit.
	for day := 1; day <= 6; day++ {
		logOnDay(t, store, user, h.ID, day, 1)
	}

	var gotStreak int
	tracker.OnMilestone = func(habit journal.Habit, streak int) {
		if habit.ID != h.ID {
			t.Errorf("milestone habit: got %q, want %q", habit.ID, h.ID)
		}
		gotStreak = streak
	}

	_, streak, err := tracker.LogHabit(user.ID, h.ID, 1, "")
	if err != nil {
		t.Fatalf("LogHabit: %v", err)
	}
	if streak != 7 {
		t.Fatalf("streak: got %d, want 7", streak)
	}
	if gotStreak != 7 {
		t.Errorf("milestone callback streak: got %d, want 7", gotStreak)
	}
}

func TestLogHabit_WrongOwner(t *testing.T) {
	store, tracker, _, h := setupTracker(t)

	other, err := store.CreateUser(journal.User{Name: "sam"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, _, err := tracker.LogHabit(other.ID, h.ID, 1, ""); !errors.Is(err, journal.ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign habit, got %v", err)
	}
}
