package moods

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/unowned-ai/moodlog/pkg/logging"
)

var (
	ErrMalformedPersistedData = errors.New("malformed persisted mood logs")
)

// timestampLayout matches the millisecond ISO-8601 form written by the
// browser build of the app, so collections round-trip between the two.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var timestampFallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// storedLog is the record shape EncodeLogs writes.
type storedLog struct {
	ID        string   `json:"id"`
	Day       string   `json:"day"`
	Value     float64  `json:"value"`
	Sentiment string   `json:"sentiment"`
	Tags      []string `json:"tags"`
	Timestamp string   `json:"timestamp"`
	Note      string   `json:"note,omitempty"`
}

// EncodeLogs serialises the collection in the given order.
func EncodeLogs(entries []LogEntry) (string, error) {
	records := make([]storedLog, 0, len(entries))
	for _, e := range entries {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		records = append(records, storedLog{
			ID:        e.ID,
			Day:       e.Day,
			Value:     float64(e.Value),
			Sentiment: string(e.Sentiment),
			Tags:      tags,
			Timestamp: e.Timestamp.UTC().Format(timestampLayout),
			Note:      e.Note,
		})
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode mood logs: %w", err)
	}
	return string(raw), nil
}

// DecodeLogs parses a persisted collection. A document that is not an
// array, or that holds a record which is not an object, is reported as
// ErrMalformedPersistedData. Individual fields are tolerated: unparseable
// timestamps become now, numeric timestamps are epoch milliseconds and
// zone-less ones are read in loc. Records without a numeric value are
// skipped with a warning.
func DecodeLogs(raw string, now time.Time, loc *time.Location) ([]LogEntry, error) {
	if strings.TrimSpace(raw) == "" {
		return []LogEntry{}, nil
	}
	if loc == nil {
		loc = time.Local
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPersistedData, err)
	}

	entries := make([]LogEntry, 0, len(records))
	for i, rec := range records {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rec, &fields); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedPersistedData, i, err)
		}
		if fields == nil {
			return nil, fmt.Errorf("%w: record %d is null", ErrMalformedPersistedData, i)
		}

		value, ok := decodeValue(fields["value"])
		if !ok {
			logging.Warn("skipping mood log without a numeric value", "index", i, "value", string(fields["value"]))
			continue
		}

		entries = append(entries, LogEntry{
			ID:        decodeString(fields["id"]),
			Day:       decodeString(fields["day"]),
			Value:     int(math.Round(value)),
			Sentiment: Sentiment(decodeString(fields["sentiment"])),
			Tags:      decodeTags(fields["tags"]),
			Timestamp: decodeTimestamp(fields["timestamp"], now, loc),
			Note:      decodeString(fields["note"]),
		})
	}
	return entries, nil
}

// decodeString reads a JSON string, or the literal text of a number.
func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func decodeValue(raw json.RawMessage) (float64, bool) {
	if raw == nil || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// decodeTags accepts a string array (non-string elements are dropped) or a
// comma-separated string.
func decodeTags(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		var tags []string
		for _, item := range items {
			var tag string
			if err := json.Unmarshal(item, &tag); err == nil {
				tags = append(tags, tag)
			}
		}
		return tags
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseTags(s)
	}
	return nil
}

func decodeTimestamp(raw json.RawMessage, now time.Time, loc *time.Location) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseTimestamp(s, now, loc)
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms)).UTC()
	}
	return now
}

// parseTimestamp reads zone-less layouts in loc, the way a browser reads a
// local date-time string.
func parseTimestamp(s string, now time.Time, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampFallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return now
}
