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

func newRememberCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "remember <statement>",
		Short: "Store something Sage should remember about you",
		Long: `Save a memory directly, without going through a chat turn.

Examples:
  sage remember "I want to run a half marathon by October"
  sage remember "Finished the first draft of my book" --tag achievement`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statement := strings.Join(args, " ")

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

			var t memory.Tag
			if tag != "" {
				t = memory.Tag(strings.ToLower(tag))
				if !memory.ValidTag(t) {
					return fmt.Errorf("unknown tag %q (valid: goal, struggle, achievement, reflection, conversation, habit_log)", tag)
				}
			}

			mem, degraded, err := memories.Remember(context.Background(), user.ID, statement, t)
			if err != nil {
				return fmt.Errorf("store memory: %w", err)
			}

			fmt.Printf("Remembered as: %s\n", mem.Tag)
			fmt.Printf("  %q\n", mem.Content)
			if degraded {
				fmt.Println("  (embedded with the offline fallback; run `sage reindex` once your embedder is back)")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "",
		"Memory tag: goal, struggle, achievement, reflection, conversation, habit_log (auto-detected if not set)")

	return cmd
}
