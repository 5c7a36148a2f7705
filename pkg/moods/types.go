package moods

import (
	"fmt"
	"strings"
	"time"
)

// Sentiment is the affect label recorded with each mood log.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
	SentimentAnxious  Sentiment = "Anxious"
	SentimentHopeful  Sentiment = "Hopeful"
)

// Sentiments lists every recognised sentiment in display order.
var Sentiments = []Sentiment{
	SentimentPositive,
	SentimentNeutral,
	SentimentNegative,
	SentimentAnxious,
	SentimentHopeful,
}

// Valid reports whether s is one of the recognised sentiments.
func (s Sentiment) Valid() bool {
	for _, known := range Sentiments {
		if s == known {
			return true
		}
	}
	return false
}

// negative reports whether s counts towards a spiral.
func (s Sentiment) negative() bool {
	return s == SentimentNegative || s == SentimentAnxious
}

// ParseSentiment matches name case-insensitively against the known sentiments.
func ParseSentiment(name string) (Sentiment, error) {
	trimmed := strings.TrimSpace(name)
	for _, known := range Sentiments {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unknown sentiment %q", ErrInvalidEntry, name)
}

// TriggerMood is the qualitative bucket assigned to a tag's average mood.
// It is deliberately a separate type from Sentiment: the labels overlap
// textually but are derived, never stored.
type TriggerMood string

const (
	TriggerEnergized TriggerMood = "Energized"
	TriggerNeutral   TriggerMood = "Neutral"
	TriggerAnxious   TriggerMood = "Anxious"
)

// LogEntry is one recorded mood observation. Entries are immutable once
// created; the JSON field names match the persisted collection.
type LogEntry struct {
	ID        string    `json:"id"`
	Day       string    `json:"day"`
	Value     int       `json:"value"`
	Sentiment Sentiment `json:"sentiment"`
	Tags      []string  `json:"tags"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// LogInput holds the caller-supplied fields of a new mood log.
type LogInput struct {
	Value     int
	Sentiment Sentiment
	Tags      []string
	Note      string
}

const (
	MinValue = 1
	MaxValue = 10
)

// Validate checks the value range and sentiment and returns a normalised
// copy with tags trimmed and de-duplicated.
func (in LogInput) Validate() (LogInput, error) {
	if in.Value < MinValue || in.Value > MaxValue {
		return LogInput{}, fmt.Errorf("%w: value %d outside [%d,%d]", ErrInvalidEntry, in.Value, MinValue, MaxValue)
	}
	if !in.Sentiment.Valid() {
		return LogInput{}, fmt.Errorf("%w: unknown sentiment %q", ErrInvalidEntry, in.Sentiment)
	}

	out := in
	out.Tags = NormalizeTags(in.Tags)
	out.Note = strings.TrimSpace(in.Note)
	return out, nil
}

// NormalizeTags trims each tag, drops empties and keeps the first
// occurrence of duplicates.
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		t := strings.TrimSpace(tag)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}

// ParseTags splits a comma-separated tag list.
func ParseTags(tagsStr string) []string {
	if strings.TrimSpace(tagsStr) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(tagsStr, ","))
}

// DayLabel returns the short weekday name ("Mon") of t in loc.
func DayLabel(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Weekday().String()[:3]
}
