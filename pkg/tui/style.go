package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/unowned-ai/moodlog/pkg/moods"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"

	marqueeTickDuration = time.Duration(time.Second / 20)

	bordersAndPaddingWidth = 4
	panelHeightPadding     = 3
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))

	spiralStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorWhite)).
			Background(lipgloss.Color(colorRed)).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
	logLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGreenDim))
)

// BandColorize renders text in the colour of an average mood's band.
func BandColorize(text string, band moods.ScoreBand) string {
	switch band {
	case moods.BandHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)).Render(text)
	case moods.BandMid:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple)).Render(text)
	case moods.BandLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).Render(text)
	}
}

// Ten-cell bar for a 1-10 score
func scoreBar(avg float64) string {
	filled := int(avg + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > moods.MaxValue {
		filled = moods.MaxValue
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", moods.MaxValue-filled)
}

// Create a padded version marquee text for scrolling
func (m model) marqueeText(text string, availableWidth int) string {
	if availableWidth <= 0 || len(text) <= availableWidth {
		return text
	}
	paddedText := text + "    " + text
	offset := m.marqueeOffset % (len(text) + bordersAndPaddingWidth)
	if offset+availableWidth <= len(paddedText) {
		text = paddedText[offset : offset+availableWidth]
	}
	return text
}

// Logs ~30%, details ~30%, insights the rest
func (m model) columnWidths() (int, int, int) {
	leftWidth := (m.width * 30) / 100
	middleWidth := (m.width * 30) / 100
	rightWidth := m.width - (leftWidth + middleWidth)
	return leftWidth, middleWidth, rightWidth
}
