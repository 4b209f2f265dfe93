package mentor

import (
	"fmt"
	"strings"
)

// FormatJourney renders a journey summary as markdown for LLM consumption.
// An empty journey yields a fixed placeholder instead of an empty string.
func FormatJourney(j JourneySummary) string {
	var parts []string

	if len(j.ActiveGoals) > 0 {
		parts = append(parts, "**Current Active Goals:**")
		for _, g := range j.ActiveGoals {
			target := ""
			if g.TargetDate != nil {
				target = fmt.Sprintf(" (Target: %s)", g.TargetDate.Format("2006-01-02"))
			}
			parts = append(parts, fmt.Sprintf("- %s: %s%s", g.Title, g.Description, target))
		}
	}

	if len(j.CompletedGoals) > 0 {
		parts = append(parts, "\n**Recently Completed Goals:**")
		for _, g := range firstN(j.CompletedGoals, 3) {
			parts = append(parts, fmt.Sprintf("- %s", g.Title))
		}
	}

	if len(j.Achievements) > 0 {
		parts = append(parts, "\n**Recent Achievements:**")
		for _, a := range firstN(j.Achievements, 3) {
			parts = append(parts, fmt.Sprintf("- %s", a.Memory.Content))
		}
	}

	if len(j.Struggles) > 0 {
		parts = append(parts, "\n**Recent Challenges:**")
		for _, s := range firstN(j.Struggles, 3) {
			parts = append(parts, fmt.Sprintf("- %s", s.Memory.Content))
		}
	}

	if len(j.RecentLogs) > 0 {
		parts = append(parts, fmt.Sprintf("\n**Habit Tracking:** Logged %d habit entries in the last %d days",
			len(j.RecentLogs), j.PeriodDays))
	}

	if len(parts) == 0 {
		return "No significant journey data yet."
	}
	return strings.Join(parts, "\n")
}

func firstN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
