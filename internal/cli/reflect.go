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

func newReflectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reflect",
		Short: "Generate a daily reflection from your recent week",
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

			llm, err := buildLLM(cfg)
			if err != nil {
				return err
			}

			memories := memory.NewManager(database, buildEmbedder(cfg))
			journey := mentor.NewRetriever(store, memories)

			agent := mentor.NewReflectionAgent(store, journey, llm)
			agent.Model = completionModel(cfg)
			agent.MaxTokens = cfg.Mentor.MaxTokens
			agent.Temperature = cfg.Mentor.Temperature

			fmt.Println("Reflecting on your week...")

			reflection, err := agent.GenerateDaily(context.Background(), user.ID)
			if err != nil {
				return fmt.Errorf("generate reflection: %w", err)
			}

			fmt.Printf("\n%s\n", reflection.Content)

			if len(reflection.KeyInsights) > 0 {
				fmt.Println("\nKey insights:")
				for _, ins := range reflection.KeyInsights {
					fmt.Printf("  - %s\n", ins)
				}
			}
			if len(reflection.Suggestions) > 0 {
				fmt.Println("\nSuggestions:")
				for _, s := range reflection.Suggestions {
					fmt.Printf("  - %s\n", s)
				}
			}

			return nil
		},
	}
}
