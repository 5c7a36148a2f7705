package moods

import (
	"fmt"
	"strings"
)

const emptyWeekSummary = "Start logging your moods to see your weekly vibe check."

var summaryIntros = []string{
	"It looks like",
	"This week was characterized by",
	"You seem to be experiencing",
	"The data suggests",
}

// WeeklySummary builds the locally generated one-paragraph summary of the
// recent window. pick selects the opening phrase so callers control
// variety without introducing randomness.
func WeeklySummary(window []LogEntry, consistencyScore int, top []EmotionCount, pick int) string {
	if len(window) == 0 {
		return emptyWeekSummary
	}

	first := "mixed emotions"
	if len(top) > 0 {
		first = string(top[0].Name)
	}
	if pick < 0 {
		pick = -pick
	}
	intro := summaryIntros[pick%len(summaryIntros)]

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s a mix of %s", intro, strings.ToLower(first))
	if len(top) > 1 {
		fmt.Fprintf(&sb, " and %s", strings.ToLower(string(top[1].Name)))
	}
	sb.WriteString(" vibes.")

	daysLogged := int(roundHalfUp(float64(consistencyScore) / 100 * DefaultWindowDays))
	switch {
	case daysLogged >= 5:
		sb.WriteString(" You've been remarkably consistent with your logging!")
	case daysLogged > 0:
		sb.WriteString(" You're building a good habit of tracking your mental state.")
	default:
		sb.WriteString(" Try to log a bit more often to get deeper insights.")
	}
	return sb.String()
}

// SummaryFromInsights is WeeklySummary over a computed snapshot.
func SummaryFromInsights(in Insights) string {
	return WeeklySummary(in.Window, in.ConsistencyScore, in.TopEmotions, len(in.Window))
}

// SummaryPrompt renders one line per entry in the form handed to a text
// generation model: "Mon: Hopeful (7/10) - Tags: gym, sleep".
func SummaryPrompt(window []LogEntry) string {
	lines := make([]string, 0, len(window))
	for _, e := range window {
		lines = append(lines, fmt.Sprintf("%s: %s (%d/10) - Tags: %s", e.Day, e.Sentiment, e.Value, strings.Join(e.Tags, ", ")))
	}
	return strings.Join(lines, "\n")
}

// ScoreBand is a coarse rating of an average mood, used for colouring.
type ScoreBand string

const (
	BandHigh ScoreBand = "High"
	BandMid  ScoreBand = "Mid"
	BandLow  ScoreBand = "Low"
)

// BandForScore buckets an average mood on the 1-10 scale.
func BandForScore(avg float64) ScoreBand {
	switch {
	case avg >= 7.5:
		return BandHigh
	case avg >= 4.5:
		return BandMid
	default:
		return BandLow
	}
}
