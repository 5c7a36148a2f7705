package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/unowned-ai/moodlog/pkg/moods"
)

var (
	jsonFlag   bool
	promptFlag bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89ddff"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e61f44"))
	bandStyles  = map[moods.ScoreBand]lipgloss.Style{
		moods.BandHigh: lipgloss.NewStyle().Foreground(lipgloss.Color("#acfab4")),
		moods.BandMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("#b9a3eb")),
		moods.BandLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d06178")),
	}
)

func banded(avg float64, text string) string {
	return bandStyles[moods.BandForScore(avg)].Render(text)
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show consistency, top emotions, triggers, time-of-day averages and spiral warning",
	RunE: func(cmd *cobra.Command, args []string) error {
		journal, store, _, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		in := journal.Insights()
		if jsonFlag {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(in)
		}

		printInsights(cmd.OutOrStdout(), in)
		return nil
	},
}

func printInsights(w io.Writer, in moods.Insights) {
	if in.IsSpiral {
		fmt.Fprintln(w, warnStyle.Render("Your last few logs have been heavy. Consider reaching out to someone you trust."))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Last %d days", in.WindowDays)))
	fmt.Fprintf(w, "  Logs: %d\n", len(in.Window))
	fmt.Fprintf(w, "  Consistency: %d%%\n", in.ConsistencyScore)
	if len(in.TopEmotions) == 0 {
		fmt.Fprintln(w, "  Top emotions: -")
	} else {
		top := make([]string, 0, len(in.TopEmotions))
		for _, ec := range in.TopEmotions {
			top = append(top, fmt.Sprintf("%s (%d)", ec.Name, ec.Count))
		}
		fmt.Fprintf(w, "  Top emotions: %s\n", strings.Join(top, ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Triggers"))
	if len(in.TriggerMap) == 0 {
		fmt.Fprintln(w, "  No tagged logs yet.")
	}
	for _, tr := range in.TriggerMap {
		fmt.Fprintf(w, "  %-16s %s  %-9s x%d\n", tr.Tag, banded(tr.AvgMood, fmt.Sprintf("%4.1f", tr.AvgMood)), tr.DominantSentiment, tr.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Time of day"))
	for _, slot := range in.TimeSlots.Slots() {
		if slot.Count == 0 {
			fmt.Fprintf(w, "  %-9s    -\n", slot.Slot)
			continue
		}
		fmt.Fprintf(w, "  %-9s %s  (%d logs)\n", slot.Slot, banded(slot.Average, fmt.Sprintf("%4.1f", slot.Average)), slot.Count)
	}
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a short summary of the last 7 days",
	Long: `Print a short summary of the last 7 days. With --prompt, also print the
per-day lines ("Mon: Hopeful (7/10) - Tags: gym") that can be handed to a
text model for a richer write-up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		journal, store, _, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		in := journal.Insights()
		fmt.Fprintln(cmd.OutOrStdout(), moods.SummaryFromInsights(in))
		if promptFlag && len(in.Window) > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), moods.SummaryPrompt(in.Window))
		}
		return nil
	},
}

func initInsightsCmds() {
	insightsCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the insights as JSON")
	summaryCmd.Flags().BoolVar(&promptFlag, "prompt", false, "Also print the per-day lines for a text model")
}
