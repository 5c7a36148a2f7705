package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/unowned-ai/moodlog/pkg/logging"
	"github.com/unowned-ai/moodlog/pkg/moods"
)

const (
	fieldValue = iota
	fieldSentiment
	fieldTags
	fieldNote
	fieldCount
)

const recentLogLines = 5

type model struct {
	journal *moods.Journal
	source  string // where the collection is persisted, shown in the info line

	logs     []moods.LogEntry
	insights moods.Insights

	cursor   int // Index of selected log
	width    int // Current terminal width (for layout)
	height   int // Current terminal height
	err      error
	quitting bool

	creating    bool
	createStep  int // one of the field* constants
	createError string
	inputs      [fieldCount]textinput.Model

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(journal *moods.Journal, source string) model {
	placeholders := [fieldCount]string{
		"Mood value 1-10",
		"Sentiment (" + sentimentList() + ")",
		"Tags, comma separated (optional)",
		"Note (optional)",
	}
	limits := [fieldCount]int{2, 16, 256, 512}

	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = limits[i]
	}

	return model{
		journal: journal,
		source:  source,
		inputs:  inputs,
	}
}

func sentimentList() string {
	names := make([]string, len(moods.Sentiments))
	for i, s := range moods.Sentiments {
		names[i] = string(s)
	}
	return strings.Join(names, "/")
}

// Execute commands concurrently with no ordering guarantees during initialization
func (m model) Init() tea.Cmd {
	return tea.Batch(
		loadSnapshot(m.journal),
		tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		}),
	)
}

func (m *model) resetForm() {
	m.creating = false
	m.createStep = fieldValue
	m.createError = ""
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
}

// formInput validates what has been typed into the form so far.
func (m model) formInput() (moods.LogInput, error) {
	var in moods.LogInput

	value, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldValue].Value()))
	if err != nil || value < moods.MinValue || value > moods.MaxValue {
		return in, fmt.Errorf("value must be a whole number from %d to %d", moods.MinValue, moods.MaxValue)
	}
	in.Value = value
	if m.createStep < fieldSentiment {
		return in, nil
	}

	sentiment, err := moods.ParseSentiment(m.inputs[fieldSentiment].Value())
	if err != nil {
		return in, fmt.Errorf("sentiment must be one of %s", sentimentList())
	}
	in.Sentiment = sentiment
	in.Tags = moods.ParseTags(m.inputs[fieldTags].Value())
	in.Note = m.inputs[fieldNote].Value()
	return in, nil
}

// Processes events like window resize, errors, loaded data, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case snapshotMsg:
		m.logs = msg.logs
		m.insights = msg.insights
		if m.cursor >= len(m.logs) {
			m.cursor = 0
		}
		return m, nil

	case logAddedMsg:
		m.resetForm()
		m.cursor = 0
		return m, loadSnapshot(m.journal)

	case addLogFailedMsg:
		m.createError = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.creating {
			switch msg.Type {
			case tea.KeyEnter:
				in, err := m.formInput()
				if err != nil {
					m.createError = err.Error()
					return m, nil
				}
				m.createError = ""
				if m.createStep < fieldNote {
					m.inputs[m.createStep].Blur()
					m.createStep++
					return m, m.inputs[m.createStep].Focus()
				}
				return m, addLog(m.journal, in)

			case tea.KeyEsc:
				m.resetForm()
				return m, nil
			}

			var cmd tea.Cmd
			m.inputs[m.createStep], cmd = m.inputs[m.createStep].Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			// Exit alt screen before quitting so the goodbye message displays
			return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.logs)-1 {
				m.cursor++
			}

		case "r":
			m.err = nil
			return m, reloadJournal(m.journal)

		case "n":
			m.resetForm()
			m.creating = true
			return m, m.inputs[fieldValue].Focus()
		}

	case time.Time:
		// Update marquee animation every x ticks (adjust for speed)
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		})
	}

	return m, nil
}

func (m model) logsPanel(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render("  Logs"))
	b.WriteString("\n\n")

	if len(m.logs) == 0 {
		b.WriteString("No moods logged yet. Press 'n' to add one.\n")
		return b.String()
	}

	loc := m.journal.Location()
	for i, e := range m.logs {
		pointer := "  "
		itemStyle := inactiveStyle
		line := fmt.Sprintf("%s %s %2d %s", e.Day, e.Timestamp.In(loc).Format("Jan 02 15:04"), e.Value, e.Sentiment)
		availableWidth := width - len(pointer) - bordersAndPaddingWidth - 1

		if i == m.cursor {
			pointer = "> "
			itemStyle = selectedStyle
			line = m.marqueeText(line, availableWidth)
		} else if availableWidth > 3 && len(line) > availableWidth {
			line = line[:availableWidth-2] + ".."
		}
		b.WriteString(pointer + itemStyle.Render(lipgloss.NewStyle().MaxWidth(availableWidth).Render(line)) + "\n")
	}
	return b.String()
}

func (m model) detailsPanel(width int) string {
	var b strings.Builder

	if m.creating {
		b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render("New Mood Log"))
		b.WriteString("\n\n")
		labels := [fieldCount]string{"Value", "Sentiment", "Tags", "Note"}
		for i := 0; i <= m.createStep; i++ {
			m.inputs[i].Width = width - bordersAndPaddingWidth - len(labels[i]) - 2
			b.WriteString(labelStyle.Render(labels[i]+": ") + m.inputs[i].View() + "\n")
		}
		b.WriteString("\n(enter for next field, esc to cancel)")
		if m.createError != "" {
			b.WriteString("\n\n" + errorStyle.Render(m.createError) + "\n")
		}
		return b.String()
	}

	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render("Log"))
	b.WriteString("\n\n")
	if len(m.logs) == 0 {
		b.WriteString("Select a log to view details.")
		return b.String()
	}

	e := m.logs[m.cursor]
	tags := "-"
	if len(e.Tags) > 0 {
		tags = strings.Join(e.Tags, " ")
	}
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("When: "), e.Timestamp.In(m.journal.Location()).Format("Mon Jan 02 2006 15:04"))
	fmt.Fprintf(&b, "%s%s %s\n", labelStyle.Render("Mood: "),
		BandColorize(fmt.Sprintf("%d/10", e.Value), moods.BandForScore(float64(e.Value))), e.Sentiment)
	fmt.Fprintf(&b, "%s%s\n\n", labelStyle.Render("Tags: "), tagStyle.Render(tags))
	if e.Note != "" {
		b.WriteString(inactiveStyle.Render(e.Note))
	}
	return b.String()
}

func (m model) insightsPanel(width int) string {
	in := m.insights
	var b strings.Builder
	b.WriteString(subtitleStyle.Width(width - bordersAndPaddingWidth).Render("Insights"))
	b.WriteString("\n\n")

	if in.IsSpiral {
		b.WriteString(spiralStyle.Render("Your last few logs have been heavy. Consider reaching out to someone you trust.") + "\n\n")
	}

	fmt.Fprintf(&b, "%s%d%% of the last %d days\n", labelStyle.Render("Consistency: "), in.ConsistencyScore, in.WindowDays)

	top := make([]string, 0, len(in.TopEmotions))
	for _, ec := range in.TopEmotions {
		top = append(top, fmt.Sprintf("%s (%d)", ec.Name, ec.Count))
	}
	if len(top) == 0 {
		top = append(top, "-")
	}
	fmt.Fprintf(&b, "%s%s\n\n", labelStyle.Render("Top emotions: "), strings.Join(top, ", "))

	b.WriteString(labelStyle.Render("Triggers") + "\n")
	if len(in.TriggerMap) == 0 {
		b.WriteString("  no tagged logs yet\n")
	}
	for _, tr := range in.TriggerMap {
		band := moods.BandForScore(tr.AvgMood)
		fmt.Fprintf(&b, "  %s %s %s x%d\n", tagStyle.Render(tr.Tag),
			BandColorize(fmt.Sprintf("%.1f", tr.AvgMood), band), tr.DominantSentiment, tr.Count)
	}

	b.WriteString("\n" + labelStyle.Render("Time of day") + "\n")
	for _, slot := range in.TimeSlots.Slots() {
		if slot.Count == 0 {
			fmt.Fprintf(&b, "  %-9s %s  -\n", slot.Slot, scoreBar(0))
			continue
		}
		fmt.Fprintf(&b, "  %-9s %s %.1f\n", slot.Slot,
			BandColorize(scoreBar(slot.Average), moods.BandForScore(slot.Average)), slot.Average)
	}

	b.WriteString("\n" + labelStyle.Render("This week") + "\n")
	b.WriteString(inactiveStyle.Render(moods.SummaryFromInsights(in)) + "\n")

	if recent := logging.RecentLogs(recentLogLines); len(recent) > 0 {
		b.WriteString("\n" + labelStyle.Render("Activity") + "\n")
		for _, entry := range recent {
			b.WriteString(logLineStyle.Render(entry.Format()) + "\n")
		}
	}
	return b.String()
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Closing moodlog... Take care of yourself.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress r to retry or q to quit.\n", m.err)
	}

	titleBar := titleStyle.Width(m.width).Render("Moodlog - how have you been feeling?")
	leftWidth, middleWidth, rightWidth := m.columnWidths()
	height := m.height - panelHeightPadding

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2)

	leftPanel := panelStyle.Width(leftWidth).Height(height).Render(m.logsPanel(leftWidth))
	middlePanel := panelStyle.Width(middleWidth).Height(height).Render(m.detailsPanel(middleWidth))
	rightPanel := lipgloss.NewStyle().Padding(0, 2).Width(rightWidth).Height(height).
		Render(m.insightsPanel(rightWidth))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, middlePanel, rightPanel)

	footerText := fmt.Sprintf("\n↑/↓ to navigate • n to log a mood • r to reload • q to quit • %s", m.source)
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n\n" + columns + footerBar
}

// ShowTUI starts the dashboard over journal. source describes where the
// collection is stored and is shown in the footer.
func ShowTUI(journal *moods.Journal, source string) error {
	p := tea.NewProgram(initModel(journal, source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
