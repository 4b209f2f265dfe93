package habit

import (
	"math"
	"sort"
	"time"

	"github.com/sageline/sage/internal/journal"
)

// Analytics derives cross-habit summaries from the habit log.
type Analytics struct {
	store *journal.Store
}

// NewAnalytics creates an Analytics over the given store.
func NewAnalytics(store *journal.Store) *Analytics {
	return &Analytics{store: store}
}

// HabitSummary is one habit's activity within a summary window.
type HabitSummary struct {
	HabitName    string  `json:"habit_name"`
	LogCount     int     `json:"logs_count"`
	AverageValue float64 `json:"average_value"`
	Unit         string  `json:"unit,omitempty"`
}

// WeeklySummary aggregates a user's habit activity over the last 7 days.
type WeeklySummary struct {
	TotalLogs    int            `json:"total_logs"`
	ActiveHabits int            `json:"active_habits"`
	Habits       []HabitSummary `json:"habit_summaries"`
	WeekStart    string         `json:"week_start"`
	WeekEnd      string         `json:"week_end"`
}

// WeeklySummary returns per-habit log counts and averages for the last week.
func (a *Analytics) WeeklySummary(userID string) (WeeklySummary, error) {
	logs, err := a.store.ListHabitLogs(userID, "", 7)
	if err != nil {
		return WeeklySummary{}, err
	}
	habits, err := a.store.ListHabits(userID, false)
	if err != nil {
		return WeeklySummary{}, err
	}

	byHabit := make(map[string][]journal.HabitLog)
	for _, l := range logs {
		byHabit[l.HabitID] = append(byHabit[l.HabitID], l)
	}

	activeCount := 0
	var summaries []HabitSummary
	for _, h := range habits {
		if h.IsActive {
			activeCount++
		}
		habitLogs := byHabit[h.ID]
		if len(habitLogs) == 0 {
			continue
		}
		sum := 0.0
		for _, l := range habitLogs {
			sum += l.Value
		}
		summaries = append(summaries, HabitSummary{
			HabitName:    h.Name,
			LogCount:     len(habitLogs),
			AverageValue: sum / float64(len(habitLogs)),
			Unit:         h.Unit,
		})
	}

	now := time.Now()
	return WeeklySummary{
		TotalLogs:    len(logs),
		ActiveHabits: activeCount,
		Habits:       summaries,
		WeekStart:    now.AddDate(0, 0, -7).Format(dateLayout),
		WeekEnd:      now.Format(dateLayout),
	}, nil
}

// CorrelationPair reports a strong value correlation between two habits.
type CorrelationPair struct {
	HabitA      string  `json:"habit_a"`
	HabitB      string  `json:"habit_b"`
	Coefficient float64 `json:"correlation"`
}

// strongCorrelation is the |r| threshold for reporting a pair.
const strongCorrelation = 0.5

// Correlations computes the Pearson correlation of per-day values between
// every habit pair over the last `days` days and reports the strong ones.
// Fewer than two habits yields an empty result.
func (a *Analytics) Correlations(userID string, days int) ([]CorrelationPair, error) {
	habits, err := a.store.ListHabits(userID, false)
	if err != nil {
		return nil, err
	}
	if len(habits) < 2 {
		return nil, nil
	}
	logs, err := a.store.ListHabitLogs(userID, "", days)
	if err != nil {
		return nil, err
	}

	// habit -> date -> value (last write wins; one value per day suffices).
	perDay := make(map[string]map[string]float64)
	dateSet := make(map[string]struct{})
	for _, l := range logs {
		date := l.LoggedAt.Local().Format(dateLayout)
		if perDay[l.HabitID] == nil {
			perDay[l.HabitID] = make(map[string]float64)
		}
		perDay[l.HabitID][date] = l.Value
		dateSet[date] = struct{}{}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	series := make(map[string][]float64, len(habits))
	for _, h := range habits {
		values := make([]float64, len(dates))
		for i, d := range dates {
			values[i] = perDay[h.ID][d] // zero when unlogged
		}
		series[h.ID] = values
	}

	var out []CorrelationPair
	for i := 0; i < len(habits); i++ {
		for j := i + 1; j < len(habits); j++ {
			r := pearson(series[habits[i].ID], series[habits[j].ID])
			if math.Abs(r) > strongCorrelation {
				out = append(out, CorrelationPair{
					HabitA:      habits[i].Name,
					HabitB:      habits[j].Name,
					Coefficient: r,
				})
			}
		}
	}
	return out, nil
}

// pearson returns the Pearson correlation coefficient of two equal-length
// series, or 0 when either series has no variance.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}
	meanX, meanY := mean(x), mean(y)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
