package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	moodlogpkg "github.com/unowned-ai/moodlog/pkg"
	"github.com/unowned-ai/moodlog/pkg/moods"
)

type MoodlogMCPServer struct {
	mcpServer *server.MCPServer
	journal   *moods.Journal
}

// NewMoodlogMCPServer wraps journal in an MCP server with every mood tool
// registered. The caller owns the journal's store and closes it.
func NewMoodlogMCPServer(journal *moods.Journal) *MoodlogMCPServer {
	s := server.NewMCPServer(
		"Moodlog MCP Server",
		moodlogpkg.Version,
		server.WithLogging(),
		server.WithRecovery(),
	)

	RegisterPingTool(s)
	RegisterLogMoodTool(s, journal)
	RegisterListMoodsTool(s, journal)
	RegisterMoodInsightsTool(s, journal)
	RegisterTriggerMapTool(s, journal)
	RegisterTimeOfDayTool(s, journal)
	RegisterWeeklySummaryTool(s, journal)

	return &MoodlogMCPServer{
		mcpServer: s,
		journal:   journal,
	}
}

// Start runs the stdio event loop until stdin closes.
func (s *MoodlogMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// Journal returns the journal the tools operate on.
func (s *MoodlogMCPServer) Journal() *moods.Journal {
	return s.journal
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *MoodlogMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
