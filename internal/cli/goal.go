package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sageline/sage/internal/journal"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage longer-term goals",
	}

	cmd.AddCommand(
		newGoalAddCmd(),
		newGoalListCmd(),
		newGoalStatusCmd("complete", journal.GoalCompleted, "Mark a goal as completed"),
		newGoalStatusCmd("abandon", journal.GoalAbandoned, "Mark a goal as abandoned"),
	)

	return cmd
}

func newGoalAddCmd() *cobra.Command {
	var description string
	var target string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var targetDate *time.Time
			if target != "" {
				t, err := time.Parse("2006-01-02", target)
				if err != nil {
					return fmt.Errorf("invalid target date %q (want YYYY-MM-DD)", target)
				}
				targetDate = &t
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

			g, err := store.CreateGoal(journal.Goal{
				UserID:      user.ID,
				Title:       strings.Join(args, " "),
				Description: description,
				TargetDate:  targetDate,
			})
			if err != nil {
				return fmt.Errorf("create goal: %w", err)
			}

			fmt.Printf("Added goal %q\n", g.Title)
			if g.TargetDate != nil {
				fmt.Printf("  Target: %s\n", g.TargetDate.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "what reaching this goal looks like")
	cmd.Flags().StringVarP(&target, "target", "t", "", "target date (YYYY-MM-DD)")

	return cmd
}

func newGoalListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your goals",
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

			status := journal.GoalActive
			if all {
				status = ""
			}
			goals, err := store.ListGoals(user.ID, status)
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				fmt.Println("No goals yet. Add one with `sage goal add <title>`.")
				return nil
			}

			for _, g := range goals {
				marker := "[ ]"
				switch g.Status {
				case journal.GoalCompleted:
					marker = "[x]"
				case journal.GoalAbandoned:
					marker = "[~]"
				}
				fmt.Printf("  %s %s", marker, g.Title)
				if g.TargetDate != nil {
					fmt.Printf(" (target %s)", g.TargetDate.Format("2006-01-02"))
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed and abandoned goals")

	return cmd
}

// newGoalStatusCmd builds the complete/abandon commands, which differ only in
// the status they set.
func newGoalStatusCmd(use string, status journal.GoalStatus, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <title>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")

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

			goals, err := store.ListGoals(user.ID, journal.GoalActive)
			if err != nil {
				return err
			}

			for _, g := range goals {
				if strings.EqualFold(g.Title, title) {
					if err := store.UpdateGoalStatus(g.ID, status); err != nil {
						return err
					}
					fmt.Printf("Goal %q is now %s.\n", g.Title, status)
					return nil
				}
			}
			return fmt.Errorf("%w: no active goal titled %q", journal.ErrNotFound, title)
		},
	}
}
