package cli

import (
	"github.com/spf13/cobra"

	"github.com/sageline/sage/internal/config"
	"github.com/sageline/sage/internal/habit"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/mcpserver"
	"github.com/sageline/sage/internal/memory"
	"github.com/sageline/sage/internal/mentor"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Expose the journal as an MCP server over stdio",
		Long: `Run Sage as a Model Context Protocol server so MCP clients (Claude
Desktop, editors) can remember, search, log habits and read your journey.`,
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
			memories := memory.NewManager(database, buildEmbedder(cfg))

			srv := mcpserver.New(version, mcpserver.Deps{
				Store:    store,
				Memories: memories,
				Tracker:  habit.NewTracker(store),
				Journey:  mentor.NewRetriever(store, memories),
			})
			return mcpserver.Serve(srv)
		},
	}
}
