package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sageline/sage/internal/config"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
	"github.com/sageline/sage/internal/mentor"
)

func newJourneyCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "journey",
		Short: "Show a summary of your recent journey",
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

			memories := memory.NewManager(database, buildEmbedder(cfg))
			journey := mentor.NewRetriever(store, memories)

			summary, err := journey.Summarize(context.Background(), user.ID, days)
			if err != nil {
				return fmt.Errorf("summarize journey: %w", err)
			}

			fmt.Println()
			fmt.Println(mentor.FormatJourney(summary))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "lookback window in days")

	return cmd
}
