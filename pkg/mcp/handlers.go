package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/unowned-ai/moodlog/pkg/logging"
	"github.com/unowned-ai/moodlog/pkg/moods"
)

const defaultListLimit = 20

func sentimentNames() []string {
	names := make([]string, len(moods.Sentiments))
	for i, s := range moods.Sentiments {
		names[i] = string(s)
	}
	return names
}

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Moodlog MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_moodlog"), nil
}

// RegisterLogMoodTool registers the log_mood tool.
func RegisterLogMoodTool(s *server.MCPServer, journal *moods.Journal) {
	logMoodTool := mcp.NewTool("log_mood",
		mcp.WithDescription("Records a mood observation. Sentiment and tags may instead come from a JSON reflection analysis."),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Mood intensity from 1 (lowest) to 10 (highest).")),
		mcp.WithString("sentiment", mcp.Enum(sentimentNames()...), mcp.Description("Mood category. Required unless 'analysis' is given.")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated list of context tags.")),
		mcp.WithString("note", mcp.Description("Optional free-text note.")),
		mcp.WithString("analysis", mcp.Description(`Optional JSON {"sentiment","tags","reflection","insight"} produced from a journal entry.`)),
	)
	s.AddTool(logMoodTool, logMoodHandler(journal))
}

func logMoodHandler(journal *moods.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		value, ok, err := intArg(request, "value")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !ok {
			return mcp.NewToolResultError("'value' parameter is required."), nil
		}
		note := stringArg(request, "note")

		var in moods.LogInput
		if raw := stringArg(request, "analysis"); raw != "" {
			analysis, err := moods.ParseAnalysis(raw)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Could not use analysis: %v", err)), nil
			}
			in = analysis.LogInput(value, note)
			if extra := stringArg(request, "tags"); extra != "" {
				in.Tags = append(in.Tags, moods.ParseTags(extra)...)
			}
		} else {
			name := stringArg(request, "sentiment")
			if name == "" {
				return mcp.NewToolResultError("'sentiment' parameter is required when no analysis is given."), nil
			}
			sentiment, err := moods.ParseSentiment(name)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			in = moods.LogInput{
				Value:     value,
				Sentiment: sentiment,
				Tags:      moods.ParseTags(stringArg(request, "tags")),
				Note:      note,
			}
		}

		entry, err := journal.AddLog(ctx, in)
		if err != nil {
			if errors.Is(err, moods.ErrInvalidEntry) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			logging.Error("log_mood failed", "err", err)
			return mcp.NewToolResultError(fmt.Sprintf("Failed to save mood log: %v", err)), nil
		}
		return jsonResult(entry, "mood log"), nil
	}
}

// RegisterListMoodsTool registers the list_moods tool.
func RegisterListMoodsTool(s *server.MCPServer, journal *moods.Journal) {
	listMoodsTool := mcp.NewTool("list_moods",
		mcp.WithDescription("Lists recorded mood logs, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of logs to return. Defaults to 20; 0 returns all.")),
	)
	s.AddTool(listMoodsTool, listMoodsHandler(journal))
}

func listMoodsHandler(journal *moods.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit, ok, err := intArg(request, "limit")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !ok {
			limit = defaultListLimit
		}
		if limit < 0 {
			return mcp.NewToolResultError("'limit' must not be negative."), nil
		}

		logs := journal.Logs()
		if limit > 0 && len(logs) > limit {
			logs = logs[:limit]
		}
		return jsonResult(logs, "mood logs"), nil
	}
}

// RegisterMoodInsightsTool registers the get_mood_insights tool.
func RegisterMoodInsightsTool(s *server.MCPServer, journal *moods.Journal) {
	insightsTool := mcp.NewTool("get_mood_insights",
		mcp.WithDescription("Returns the last-7-days window, consistency score, top emotions, trigger map, time-of-day heatmap and spiral flag."),
	)
	s.AddTool(insightsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(journal.Insights(), "insights"), nil
	})
}

// RegisterTriggerMapTool registers the get_trigger_map tool.
func RegisterTriggerMapTool(s *server.MCPServer, journal *moods.Journal) {
	triggerMapTool := mcp.NewTool("get_trigger_map",
		mcp.WithDescription("Aggregates mood per tag across all logs, ranked by average mood, highest first."),
		mcp.WithNumber("max_tags", mcp.Description("Maximum number of tags to return. Defaults to 20; 0 returns all.")),
	)
	s.AddTool(triggerMapTool, triggerMapHandler(journal))
}

func triggerMapHandler(journal *moods.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		maxTags, ok, err := intArg(request, "max_tags")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !ok {
			maxTags = moods.DefaultMaxTags
		}
		return jsonResult(moods.TriggerMap(journal.Logs(), maxTags), "trigger map"), nil
	}
}

// RegisterTimeOfDayTool registers the get_time_of_day tool.
func RegisterTimeOfDayTool(s *server.MCPServer, journal *moods.Journal) {
	timeOfDayTool := mcp.NewTool("get_time_of_day",
		mcp.WithDescription("Returns the average mood for the Morning, Afternoon and Evening slots."),
	)
	s.AddTool(timeOfDayTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(journal.Insights().TimeSlots, "time-of-day heatmap"), nil
	})
}

type weeklySummary struct {
	Summary          string `json:"summary"`
	ConsistencyScore int    `json:"consistencyScore"`
	IsSpiral         bool   `json:"isSpiral"`
	Prompt           string `json:"prompt"`
}

// RegisterWeeklySummaryTool registers the get_weekly_summary tool.
func RegisterWeeklySummaryTool(s *server.MCPServer, journal *moods.Journal) {
	summaryTool := mcp.NewTool("get_weekly_summary",
		mcp.WithDescription("Returns a short summary of the last 7 days plus the per-day lines to feed a writing model."),
	)
	s.AddTool(summaryTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in := journal.Insights()
		return jsonResult(weeklySummary{
			Summary:          moods.SummaryFromInsights(in),
			ConsistencyScore: in.ConsistencyScore,
			IsSpiral:         in.IsSpiral,
			Prompt:           strings.TrimSpace(moods.SummaryPrompt(in.Window)),
		}, "weekly summary"), nil
	})
}
