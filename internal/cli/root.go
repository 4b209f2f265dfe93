// Package cli defines the Cobra command tree for the sage CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sage",
	Short: "AI-powered personal growth journal",
	Long: `Sage is a local-first personal growth companion.

It tracks your habits and goals, remembers what you tell it, and uses an
LLM mentor that actually knows your journey: every chat is grounded in
your past conversations, achievements and struggles via semantic memory.

Run 'sage init' to create your profile, then 'sage chat' to talk.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newInitCmd(),
		newChatCmd(),
		newReflectCmd(),
		newHabitCmd(),
		newGoalCmd(),
		newRememberCmd(),
		newRecallCmd(),
		newJourneyCmd(),
		newExportCmd(),
		newReindexCmd(),
		newServeCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sage %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
