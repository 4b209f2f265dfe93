package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sageline/sage/internal/export"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
		days   int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your journal to markdown or JSON",
		Long: `Render the whole journal as a portable document.
Output goes to stdout unless --output is given.

Examples:
  sage export --format markdown > journal.md
  sage export --format json --output backup.json`,
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

			exporter, ok := export.Get(strings.ToLower(format))
			if !ok {
				return fmt.Errorf("unknown format %q; valid formats: %s",
					format, strings.Join(export.ValidFormats(), ", "))
			}

			habits, err := store.ListHabits(user.ID, false)
			if err != nil {
				return err
			}
			goals, err := store.ListGoals(user.ID, "")
			if err != nil {
				return err
			}
			logs, err := store.ListHabitLogs(user.ID, "", days)
			if err != nil {
				return err
			}
			reflections, err := store.ListReflections(user.ID, days)
			if err != nil {
				return err
			}
			memories, err := memory.NewStore(database).List(user.ID, "")
			if err != nil {
				return err
			}

			rendered, err := exporter.Export(export.ExportData{
				User:        user,
				Habits:      habits,
				Goals:       goals,
				Logs:        logs,
				Reflections: reflections,
				Memories:    memories,
			})
			if err != nil {
				return fmt.Errorf("render export: %w", err)
			}

			if output == "" {
				fmt.Print(rendered)
				return nil
			}
			if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Printf("Exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "export format: markdown, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().IntVar(&days, "days", 365, "how far back to include logs and reflections")

	return cmd
}
