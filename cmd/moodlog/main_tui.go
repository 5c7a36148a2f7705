package main

import (
	"github.com/spf13/cobra"
	"github.com/unowned-ai/moodlog/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show terminal UI",
	Long:  `Display an interactive dashboard of your mood logs and insights. Press n to log a mood, r to reload and q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		journal, store, source, err := openJournal(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		return tui.ShowTUI(journal, source)
	},
}
