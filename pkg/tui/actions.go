package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/unowned-ai/moodlog/pkg/moods"
)

type snapshotMsg struct {
	logs     []moods.LogEntry
	insights moods.Insights
}

type logAddedMsg struct {
	entry moods.LogEntry
}

// addLogFailedMsg keeps the form open instead of replacing the whole view.
type addLogFailedMsg struct {
	err error
}

func takeSnapshot(journal *moods.Journal) snapshotMsg {
	return snapshotMsg{logs: journal.Logs(), insights: journal.Insights()}
}

// Read the in-memory collection and its derived views
func loadSnapshot(journal *moods.Journal) tea.Cmd {
	return func() tea.Msg {
		return takeSnapshot(journal)
	}
}

// Re-read the collection from the store, then snapshot it
func reloadJournal(journal *moods.Journal) tea.Cmd {
	return func() tea.Msg {
		if err := journal.Reload(context.Background()); err != nil {
			return err
		}
		return takeSnapshot(journal)
	}
}

// Persist a new log
func addLog(journal *moods.Journal, in moods.LogInput) tea.Cmd {
	return func() tea.Msg {
		entry, err := journal.AddLog(context.Background(), in)
		if err != nil {
			return addLogFailedMsg{err: err}
		}
		return logAddedMsg{entry: entry}
	}
}
