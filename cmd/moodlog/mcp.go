package main

import (
	"github.com/spf13/cobra"
	"github.com/unowned-ai/moodlog/pkg/logging"
	"github.com/unowned-ai/moodlog/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Moodlog MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes mood logging and
insights as MCP tools via STDIO.

Tools: ping, log_mood, list_moods, get_mood_insights, get_trigger_map,
get_time_of_day, get_weekly_summary.

The storage flags of the root command apply, for example:
  moodlog mcp
  moodlog mcp --db /path/to/moodlog.db --tz Europe/Berlin
  moodlog mcp --store redis --redis-addr localhost:6379`,
	RunE: func(cmd *cobra.Command, args []string) error {
		journal, store, source, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		srv := mcp.NewMoodlogMCPServer(journal)

		// Logs go to stderr so we don't contaminate the JSON-RPC stream on stdout.
		logging.Info("moodlog MCP server started", "store", source, "logs", len(journal.Logs()))
		return srv.Start()
	},
}
