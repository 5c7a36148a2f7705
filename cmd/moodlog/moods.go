package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/unowned-ai/moodlog/pkg/moods"
)

var (
	valueFlag     int
	sentimentFlag string
	tagsFlag      string
	noteFlag      string
	analysisFlag  string
	limitFlag     int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record how you feel right now",
	Long: `Record a mood observation with a value from 1 to 10, a sentiment and optional
tags and note. Instead of --sentiment, --analysis may point to a JSON reflection
analysis ({"sentiment","tags","reflection","insight"}) or "-" to read it from stdin.

Examples:
  moodlog log --value 7 --sentiment Hopeful --tags gym,sleep
  moodlog log --value 3 --analysis reflection.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := logInputFromFlags(cmd)
		if err != nil {
			return err
		}

		journal, store, _, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		entry, err := journal.AddLog(cmd.Context(), in)
		if err != nil {
			if errors.Is(err, moods.ErrInvalidEntry) {
				return err
			}
			return fmt.Errorf("failed to save mood log: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Logged:")
		printLog(cmd.OutOrStdout(), entry, journal)
		return nil
	},
}

func logInputFromFlags(cmd *cobra.Command) (moods.LogInput, error) {
	if !cmd.Flags().Changed("value") {
		return moods.LogInput{}, errors.New("--value is required")
	}

	if analysisFlag != "" {
		raw, err := readAnalysis(cmd, analysisFlag)
		if err != nil {
			return moods.LogInput{}, err
		}
		analysis, err := moods.ParseAnalysis(raw)
		if err != nil {
			return moods.LogInput{}, err
		}
		in := analysis.LogInput(valueFlag, noteFlag)
		in.Tags = append(in.Tags, moods.ParseTags(tagsFlag)...)
		return in, nil
	}

	if sentimentFlag == "" {
		return moods.LogInput{}, errors.New("--sentiment is required unless --analysis is given")
	}
	sentiment, err := moods.ParseSentiment(sentimentFlag)
	if err != nil {
		return moods.LogInput{}, err
	}
	return moods.LogInput{
		Value:     valueFlag,
		Sentiment: sentiment,
		Tags:      moods.ParseTags(tagsFlag),
		Note:      noteFlag,
	}, nil
}

func readAnalysis(cmd *cobra.Command, source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read analysis from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read analysis file: %w", err)
	}
	return string(data), nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List mood logs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if limitFlag < 0 {
			return errors.New("--limit must not be negative")
		}

		journal, store, _, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		logs := journal.Logs()
		if len(logs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No moods logged yet.")
			return nil
		}
		if limitFlag > 0 && len(logs) > limitFlag {
			logs = logs[:limitFlag]
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "ID | Day | Time | Value | Sentiment | Tags | Note")
		fmt.Fprintln(out, "------------------------------------------------------------")
		for _, e := range logs {
			fmt.Fprintf(out, "%s | %s | %s | %d | %s | %s | %s\n",
				e.ID, e.Day, formatTimestamp(e, journal), e.Value, e.Sentiment, formatTags(e.Tags), e.Note)
		}
		return nil
	},
}

func printLog(w io.Writer, e moods.LogEntry, journal *moods.Journal) {
	fmt.Fprintf(w, "ID: %s\n", e.ID)
	fmt.Fprintf(w, "When: %s (%s)\n", formatTimestamp(e, journal), e.Day)
	fmt.Fprintf(w, "Mood: %d/10 %s\n", e.Value, e.Sentiment)
	fmt.Fprintf(w, "Tags: %s\n", formatTags(e.Tags))
	if e.Note != "" {
		fmt.Fprintf(w, "Note: %s\n", e.Note)
	}
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

func initMoodsCmds() {
	logCmd.Flags().IntVar(&valueFlag, "value", 0, "Mood value from 1 (lowest) to 10 (highest)")
	logCmd.Flags().StringVar(&sentimentFlag, "sentiment", "", "One of Positive, Neutral, Negative, Anxious, Hopeful")
	logCmd.Flags().StringVar(&tagsFlag, "tags", "", "Comma-separated context tags")
	logCmd.Flags().StringVar(&noteFlag, "note", "", "Optional free-text note")
	logCmd.Flags().StringVar(&analysisFlag, "analysis", "", "Reflection analysis JSON file, or - for stdin")
	logCmd.MarkFlagRequired("value")

	listCmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum number of logs to show (0 for all)")
}
