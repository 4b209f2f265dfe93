package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sageline/sage/internal/config"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
	"github.com/sageline/sage/internal/mentor"
)

func newChatCmd() *cobra.Command {
	var model string
	var oneShot string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk with your AI mentor",
		Long: `Start an interactive session with the mentor. Each message is remembered,
grounded in your journey context, and answered with your recent history in
mind. Type "exit" or "quit" (or Ctrl-D) to leave.

Use --message for a single non-interactive exchange.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if model != "" {
				cfg.DefaultModel = model
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
			memories.MinSimilarity = cfg.Context.SimilarityThreshold
			journey := mentor.NewRetriever(store, memories)

			tokenizer, err := mentor.NewTokenizer()
			if err != nil {
				return fmt.Errorf("init tokenizer: %w", err)
			}
			builder := mentor.NewBuilder(journey, memories, tokenizer)

			agent := mentor.NewAgent(store, memories, journey, builder, llm)
			agent.Model = completionModel(cfg)
			agent.MaxTokens = cfg.Mentor.MaxTokens
			agent.Temperature = cfg.Mentor.Temperature
			agent.BuildOpts = mentor.BuildOptions{
				MaxMemories: cfg.Context.MaxMemories,
				MaxTokens:   cfg.Context.MaxTokens,
			}
			if cfg.Output.Stream {
				agent.OnChunk = func(text string) { fmt.Print(text) }
			}

			ctx := context.Background()

			if oneShot != "" {
				return chatOnce(ctx, agent, user.ID, oneShot, cfg.Output.Stream)
			}

			fmt.Printf("Chatting as %s. Type 'exit' to leave.\n\n", user.Name)

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for {
				fmt.Print("You: ")
				if !scanner.Scan() {
					fmt.Println()
					break
				}
				message := strings.TrimSpace(scanner.Text())
				if message == "" {
					continue
				}
				if message == "exit" || message == "quit" {
					break
				}

				fmt.Print("\nSage: ")
				if err := chatOnce(ctx, agent, user.ID, message, cfg.Output.Stream); err != nil {
					fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
				}
				fmt.Println()
			}

			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "LLM provider override: claude, openai, ollama")
	cmd.Flags().StringVar(&oneShot, "message", "", "send a single message and exit")

	return cmd
}

// chatOnce runs one exchange. When streaming, chunks were already printed by
// OnChunk; otherwise the full reply is printed here.
func chatOnce(ctx context.Context, agent *mentor.Agent, userID, message string, streamed bool) error {
	reply, err := agent.Chat(ctx, userID, message)
	if err != nil {
		return err
	}
	if streamed {
		fmt.Println()
	} else {
		fmt.Println(reply)
	}
	return nil
}
