package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sageline/sage/internal/config"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current state of your journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
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

			habits, _ := store.ListHabits(user.ID, false)
			active := 0
			for _, h := range habits {
				if h.IsActive {
					active++
				}
			}

			activeGoals, _ := store.ListGoals(user.ID, journal.GoalActive)
			doneGoals, _ := store.ListGoals(user.ID, journal.GoalCompleted)
			logs, _ := store.ListHabitLogs(user.ID, "", 30)
			reflections, _ := store.ListReflections(user.ID, 30)

			memCounts, err := memory.NewStore(database).CountByTag(user.ID)
			if err != nil {
				return err
			}
			totalMem := 0
			for _, n := range memCounts {
				totalMem += n
			}

			var dbSize int64
			if path, err := config.DBPath(); err == nil {
				if fi, err := os.Stat(path); err == nil {
					dbSize = fi.Size()
				}
			}

			fmt.Printf("\nProfile:     %s (since %s)\n", user.Name, user.CreatedAt.Format("2006-01-02"))
			fmt.Printf("Habits:      %d active (%d total)\n", active, len(habits))
			fmt.Printf("Goals:       %d active, %d completed\n", len(activeGoals), len(doneGoals))
			fmt.Printf("Last 30d:    %d habit logs, %d reflections\n", len(logs), len(reflections))

			fmt.Printf("Memories:    %d total", totalMem)
			if totalMem > 0 {
				fmt.Printf(" (")
				first := true
				tags := []memory.Tag{
					memory.TagGoal, memory.TagStruggle, memory.TagAchievement,
					memory.TagReflection, memory.TagConversation, memory.TagHabitLog,
				}
				for _, t := range tags {
					if n, ok := memCounts[t]; ok && n > 0 {
						if !first {
							fmt.Printf(", ")
						}
						fmt.Printf("%d %s", n, t)
						first = false
					}
				}
				fmt.Printf(")")
			}
			fmt.Println()

			fmt.Printf("Model:       %s (embedder: %s)\n", cfg.DefaultModel, cfg.DefaultEmbedder)
			fmt.Printf("DB size:     %s\n\n", formatBytes(dbSize))
			return nil
		},
	}
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
