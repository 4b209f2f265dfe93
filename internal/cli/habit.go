package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sageline/sage/internal/habit"
	"github.com/sageline/sage/internal/journal"
)

func newHabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage and track habits",
	}

	cmd.AddCommand(
		newHabitAddCmd(),
		newHabitLogCmd(),
		newHabitListCmd(),
		newHabitStatsCmd(),
		newHabitSummaryCmd(),
	)

	return cmd
}

func newHabitAddCmd() *cobra.Command {
	var description string
	var frequency string
	var target float64
	var unit string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new habit to track",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openJournal()
			if err != nil {
				return err
			}
			defer database.Close()

			store := journal.NewStore(database)
			user, err := currentUser(store)
			if err != nil {
				return err
			}

			h, err := store.CreateHabit(journal.Habit{
				UserID:      user.ID,
				Name:        strings.Join(args, " "),
				Description: description,
				Frequency:   journal.Frequency(frequency),
				TargetValue: target,
				Unit:        unit,
			})
			if err != nil {
				return fmt.Errorf("create habit: %w", err)
			}

			fmt.Printf("Added habit %q (%s)\n", h.Name, h.Frequency)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "what this habit is about")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "daily", "cadence: daily, weekly, monthly")
	cmd.Flags().Float64VarP(&target, "target", "t", 0, "target value per period")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "unit for values (minutes, pages, km)")

	return cmd
}

func newHabitLogCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "log <name> [value]",
		Short: "Log a habit entry for today",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := 1.0
			if len(args) == 2 {
				v, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("invalid value %q", args[1])
				}
				value = v
			}

			database, err := openJournal()
			if err != nil {
				return err
			}
			defer database.Close()

			store := journal.NewStore(database)
			user, err := currentUser(store)
			if err != nil {
				return err
			}

			h, err := findHabitByName(store, user.ID, args[0])
			if err != nil {
				return err
			}

			tracker := habit.NewTracker(store)
			tracker.OnMilestone = func(h journal.Habit, streak int) {
				fmt.Printf("  Milestone! %d-day streak on %q\n", streak, h.Name)
			}

			_, streak, err := tracker.LogHabit(user.ID, h.ID, value, notes)
			if err != nil {
				return fmt.Errorf("log habit: %w", err)
			}

			fmt.Printf("Logged %s", h.Name)
			if h.Unit != "" {
				fmt.Printf(": %g %s", value, h.Unit)
			}
			fmt.Printf(" (streak: %d days)\n", streak)
			return nil
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "optional note for this entry")

	return cmd
}

func newHabitListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openJournal()
			if err != nil {
				return err
			}
			defer database.Close()

			store := journal.NewStore(database)
			user, err := currentUser(store)
			if err != nil {
				return err
			}

			habits, err := store.ListHabits(user.ID, !all)
			if err != nil {
				return err
			}
			if len(habits) == 0 {
				fmt.Println("No habits yet. Add one with `sage habit add <name>`.")
				return nil
			}

			tracker := habit.NewTracker(store)
			for _, h := range habits {
				streak, _ := tracker.CalculateStreak(user.ID, h.ID)
				line := fmt.Sprintf("  %-24s %-8s streak: %d", h.Name, h.Frequency, streak)
				if !h.IsActive {
					line += "  (inactive)"
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include inactive habits")

	return cmd
}

func newHabitStatsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats <name>",
		Short: "Show statistics for one habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openJournal()
			if err != nil {
				return err
			}
			defer database.Close()

			store := journal.NewStore(database)
			user, err := currentUser(store)
			if err != nil {
				return err
			}

			h, err := findHabitByName(store, user.ID, strings.Join(args, " "))
			if err != nil {
				return err
			}

			tracker := habit.NewTracker(store)
			stats, err := tracker.Statistics(user.ID, h.ID, days)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s (last %d days)\n", h.Name, days)
			fmt.Printf("  Entries:    %d\n", stats.TotalLogs)
			fmt.Printf("  Streak:     %d days\n", stats.Streak)
			fmt.Printf("  Completion: %.0f%%\n", stats.CompletionRate*100)
			if stats.TotalLogs > 0 {
				fmt.Printf("  Average:    %.2f", stats.AverageValue)
				if h.Unit != "" {
					fmt.Printf(" %s", h.Unit)
				}
				fmt.Println()
				fmt.Printf("  Range:      %.2f - %.2f\n", stats.MinValue, stats.MaxValue)
			}
			fmt.Printf("  Trend:      %s\n\n", stats.Trend)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "statistics window in days")

	return cmd
}

func newHabitSummaryCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Weekly activity summary and habit correlations",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openJournal()
			if err != nil {
				return err
			}
			defer database.Close()

			store := journal.NewStore(database)
			user, err := currentUser(store)
			if err != nil {
				return err
			}

			analytics := habit.NewAnalytics(store)
			summary, err := analytics.WeeklySummary(user.ID)
			if err != nil {
				return err
			}

			fmt.Printf("\nWeek %s to %s\n", summary.WeekStart, summary.WeekEnd)
			fmt.Printf("  %d log entries across %d active habits\n", summary.TotalLogs, summary.ActiveHabits)
			for _, hs := range summary.Habits {
				fmt.Printf("  %-24s %d logs, avg %.2f", hs.HabitName, hs.LogCount, hs.AverageValue)
				if hs.Unit != "" {
					fmt.Printf(" %s", hs.Unit)
				}
				fmt.Println()
			}

			pairs, err := analytics.Correlations(user.ID, days)
			if err != nil {
				return err
			}
			if len(pairs) > 0 {
				fmt.Println("\nCorrelated habits:")
				for _, p := range pairs {
					fmt.Printf("  %s and %s (r = %.2f)\n", p.HabitA, p.HabitB, p.Coefficient)
				}
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "correlation window in days")

	return cmd
}

// findHabitByName resolves a habit by case-insensitive name match.
func findHabitByName(store *journal.Store, userID, name string) (journal.Habit, error) {
	habits, err := store.ListHabits(userID, false)
	if err != nil {
		return journal.Habit{}, err
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, name) {
			return h, nil
		}
	}
	return journal.Habit{}, fmt.Errorf("%w: no habit named %q", journal.ErrNotFound, name)
}
