package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sageline/sage/internal/config"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
)

func newRecallCmd() *cobra.Command {
	var tag string
	var limit int

	cmd := &cobra.Command{
		Use:   "recall <query>",
		Short: "Search your memories semantically",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

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

			var t memory.Tag
			if tag != "" {
				t = memory.Tag(strings.ToLower(tag))
				if !memory.ValidTag(t) {
					return fmt.Errorf("unknown tag %q", tag)
				}
			}

			memories := memory.NewManager(database, buildEmbedder(cfg))
			memories.MinSimilarity = cfg.Context.SimilarityThreshold
			results, err := memories.Search(context.Background(), user.ID, query, t, limit)
			if err != nil {
				return fmt.Errorf("search memories: %w", err)
			}
			if len(results) == 0 {
				fmt.Println("No matching memories.")
				return nil
			}

			for i, r := range results {
				fmt.Printf("%d. [%s] %s\n", i+1, strings.ToUpper(string(r.Memory.Tag)), r.Memory.Content)
				fmt.Printf("   %s, similarity %.2f\n", r.Memory.CreatedAt.Format("2006-01-02 15:04"), r.Similarity)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "only memories with this tag")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum results")

	return cmd
}
