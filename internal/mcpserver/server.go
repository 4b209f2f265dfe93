// Package mcpserver exposes the journal over the Model Context Protocol so
// MCP-capable assistants can log habits and read the user's journey.
//
// This is the composition root for the MCP surface: it wires the stores and
// managers into tool handlers and registers them. No business logic lives
// here.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/sageline/sage/internal/habit"
	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
	"github.com/sageline/sage/internal/mentor"
)

// Deps are the subsystems the MCP tools operate on.
type Deps struct {
	Store    *journal.Store
	Memories *memory.Manager
	Tracker  *habit.Tracker
	Journey  *mentor.Retriever
}

// New creates the MCP server with every tool registered.
func New(version string, deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"sage",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	rememberTool := &RememberTool{store: deps.Store, memories: deps.Memories, journey: deps.Journey}
	s.AddTool(rememberTool.Definition(), rememberTool.Handle)

	searchTool := &SearchTool{store: deps.Store, memories: deps.Memories}
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	logTool := &LogHabitTool{store: deps.Store, tracker: deps.Tracker, journey: deps.Journey}
	s.AddTool(logTool.Definition(), logTool.Handle)

	statsTool := &HabitStatsTool{store: deps.Store, tracker: deps.Tracker}
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	journeyTool := &JourneyTool{store: deps.Store, journey: deps.Journey}
	s.AddTool(journeyTool.Definition(), journeyTool.Handle)

	return s
}

// Serve runs the server on the stdio transport until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const serverInstructions = `Sage is a personal growth journal. Use remember_memory to store what the user
tells you about their goals, struggles and wins; search_memories to recall it;
log_habit to record habit completions; habit_stats for streaks and trends; and
journey_summary for an overview of their recent progress.`
