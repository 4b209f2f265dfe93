package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sageline/sage/internal/config"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
)

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Re-embed every memory with the configured embedder",
		Long: `Recompute the vector for every stored memory. Useful after switching
embedding providers, or to upgrade hash-fallback vectors once a real
embedder is available.`,
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

			user, err := currentUser(journal.NewStore(database))
			if err != nil {
				return err
			}

			memories := memory.NewManager(database, buildEmbedder(cfg))

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("  Re-embedding memories"),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)

			count, degraded, err := memories.Reindex(context.Background(), user.ID, func(done, total int) {
				_ = bar.Add(1)
			})
			_ = bar.Finish()
			if err != nil {
				return fmt.Errorf("reindex: %w", err)
			}

			fmt.Printf("Re-embedded %d memories.\n", count)
			if degraded {
				fmt.Println("Some vectors used the offline hash fallback; check your embedder config.")
			}
			return nil
		},
	}
}
