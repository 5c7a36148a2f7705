package moods

import (
	"reflect"
	"testing"
	"time"
)

var testLoc = time.FixedZone("UTC+2", 2*60*60)

// refNow is Wednesday 2026-10-14 12:00 in testLoc.
var refNow = time.Date(2026, 10, 14, 12, 0, 0, 0, testLoc)

func entryAt(t time.Time, value int, s Sentiment, tags ...string) LogEntry {
	return LogEntry{
		ID:        t.Format(time.RFC3339Nano),
		Day:       DayLabel(t, testLoc),
		Value:     value,
		Sentiment: s,
		Tags:      tags,
		Timestamp: t,
	}
}

func daysAgo(n float64) time.Time {
	return refNow.Add(-time.Duration(n * float64(24*time.Hour)))
}

func TestSelectRecentWindow(t *testing.T) {
	entries := []LogEntry{
		entryAt(daysAgo(0), 5, SentimentNeutral),
		entryAt(daysAgo(6.5), 5, SentimentNeutral),    // ceil -> 7, inside
		entryAt(daysAgo(7), 5, SentimentNeutral),      // exactly 7, inside
		entryAt(daysAgo(7.0001), 5, SentimentNeutral), // ceil -> 8, outside
		entryAt(daysAgo(30), 5, SentimentNeutral),
		entryAt(daysAgo(-2), 5, SentimentNeutral), // future, |age| = 2
	}

	window := SelectRecentWindow(entries, refNow, DefaultWindowDays)
	if len(window) != 4 {
		t.Fatalf("Expected 4 entries in window, got %d: %+v", len(window), window)
	}

	want := []LogEntry{entries[0], entries[1], entries[2], entries[5]}
	if !reflect.DeepEqual(window, want) {
		t.Errorf("Window order or content mismatch.\nwant: %+v\ngot:  %+v", want, window)
	}
}

func TestSelectRecentWindow_Empty(t *testing.T) {
	window := SelectRecentWindow(nil, refNow, DefaultWindowDays)
	if window == nil || len(window) != 0 {
		t.Errorf("Expected non-nil empty window, got %#v", window)
	}
}

func TestConsistencyScore(t *testing.T) {
	tests := []struct {
		name    string
		entries []LogEntry
		days    int
		want    int
	}{
		{"empty", nil, 7, 0},
		{"one day", []LogEntry{entryAt(refNow, 5, SentimentNeutral)}, 7, 14},
		{
			"same date counted once",
			[]LogEntry{
				entryAt(refNow, 5, SentimentNeutral),
				entryAt(refNow.Add(-2*time.Hour), 5, SentimentNeutral),
			},
			7, 14,
		},
		{
			"three dates",
			[]LogEntry{
				entryAt(daysAgo(0), 5, SentimentNeutral),
				entryAt(daysAgo(1), 5, SentimentNeutral),
				entryAt(daysAgo(3), 5, SentimentNeutral),
			},
			7, 43,
		},
		{
			"eight dates clamp to 100",
			[]LogEntry{
				entryAt(daysAgo(0), 5, SentimentNeutral),
				entryAt(daysAgo(1), 5, SentimentNeutral),
				entryAt(daysAgo(2), 5, SentimentNeutral),
				entryAt(daysAgo(3), 5, SentimentNeutral),
				entryAt(daysAgo(4), 5, SentimentNeutral),
				entryAt(daysAgo(5), 5, SentimentNeutral),
				entryAt(daysAgo(6), 5, SentimentNeutral),
				entryAt(daysAgo(6.9), 5, SentimentNeutral),
			},
			7, 100,
		},
		{"zero days", []LogEntry{entryAt(refNow, 5, SentimentNeutral)}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConsistencyScore(tt.entries, tt.days, testLoc); got != tt.want {
				t.Errorf("ConsistencyScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConsistencyScore_UsesLocalDate(t *testing.T) {
	// 23:30 and 00:30 local are two dates in testLoc but one date in UTC.
	late := time.Date(2026, 10, 13, 23, 30, 0, 0, testLoc)
	early := time.Date(2026, 10, 14, 0, 30, 0, 0, testLoc)
	window := []LogEntry{entryAt(late, 5, SentimentNeutral), entryAt(early, 5, SentimentNeutral)}

	if got := ConsistencyScore(window, 7, testLoc); got != 29 {
		t.Errorf("Expected 2 local dates (29%%), got %d", got)
	}
	if got := ConsistencyScore(window, 7, time.UTC); got != 14 {
		t.Errorf("Expected 1 UTC date (14%%), got %d", got)
	}
}

func TestTopEmotions(t *testing.T) {
	window := []LogEntry{
		entryAt(daysAgo(0), 5, SentimentHopeful),
		entryAt(daysAgo(1), 5, SentimentAnxious),
		entryAt(daysAgo(2), 5, SentimentAnxious),
		entryAt(daysAgo(3), 5, SentimentPositive),
		entryAt(daysAgo(4), 5, SentimentHopeful),
		entryAt(daysAgo(5), 5, SentimentNeutral),
		entryAt(daysAgo(5), 5, SentimentPositive),
	}

	got := TopEmotions(window, DefaultTopEmotions)
	want := []EmotionCount{
		{Name: SentimentHopeful, Count: 2},
		{Name: SentimentAnxious, Count: 2},
		{Name: SentimentPositive, Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopEmotions mismatch.\nwant: %+v\ngot:  %+v", want, got)
	}

	total := 0
	for _, ec := range TopEmotions(window, 10) {
		total += ec.Count
	}
	if total != len(window) {
		t.Errorf("Counts over all emotions should sum to %d, got %d", len(window), total)
	}

	if got := TopEmotions(nil, 3); len(got) != 0 {
		t.Errorf("Expected no emotions for empty window, got %+v", got)
	}
}

func TestTriggerMap(t *testing.T) {
	entries := []LogEntry{
		entryAt(daysAgo(0), 9, SentimentPositive, "work"),
		entryAt(daysAgo(1), 3, SentimentAnxious, "work"),
	}

	got := TriggerMap(entries, DefaultMaxTags)
	want := []TagTrigger{{Tag: "work", AvgMood: 6.0, DominantSentiment: TriggerNeutral, Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TriggerMap mismatch.\nwant: %+v\ngot:  %+v", want, got)
	}
}

func TestTriggerMap_BucketsSortingAndDuplicates(t *testing.T) {
	entries := []LogEntry{
		entryAt(daysAgo(0), 9, SentimentPositive, "gym", "gym", "sleep"),
		entryAt(daysAgo(1), 8, SentimentPositive, "gym"),
		entryAt(daysAgo(2), 2, SentimentAnxious, "deadline"),
		entryAt(daysAgo(3), 7, SentimentHopeful, "sleep"),
		entryAt(daysAgo(40), 5, SentimentNeutral, "commute", ""),
	}

	got := TriggerMap(entries, DefaultMaxTags)
	want := []TagTrigger{
		{Tag: "gym", AvgMood: 8.5, DominantSentiment: TriggerEnergized, Count: 2},
		{Tag: "sleep", AvgMood: 8.0, DominantSentiment: TriggerEnergized, Count: 2},
		{Tag: "commute", AvgMood: 5.0, DominantSentiment: TriggerNeutral, Count: 1},
		{Tag: "deadline", AvgMood: 2.0, DominantSentiment: TriggerAnxious, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TriggerMap mismatch.\nwant: %+v\ngot:  %+v", want, got)
	}

	if limited := TriggerMap(entries, 2); len(limited) != 2 || limited[1].Tag != "sleep" {
		t.Errorf("Expected truncation to the top 2 tags, got %+v", limited)
	}
}

func TestTriggerMap_RoundsToOneDecimal(t *testing.T) {
	entries := []LogEntry{
		entryAt(daysAgo(0), 7, SentimentPositive, "tea"),
		entryAt(daysAgo(1), 7, SentimentPositive, "tea"),
		entryAt(daysAgo(2), 8, SentimentPositive, "tea"),
	}
	got := TriggerMap(entries, DefaultMaxTags)
	if got[0].AvgMood != 7.3 {
		t.Errorf("Expected 22/3 to round to 7.3, got %v", got[0].AvgMood)
	}
	if got[0].DominantSentiment != TriggerEnergized {
		t.Errorf("Expected 7.3 to be Energized, got %s", got[0].DominantSentiment)
	}
}

func TestClassifyTriggerMood_Boundaries(t *testing.T) {
	tests := map[float64]TriggerMood{
		7.1: TriggerEnergized,
		7.0: TriggerNeutral,
		4.0: TriggerNeutral,
		3.9: TriggerAnxious,
	}
	for avg, want := range tests {
		if got := ClassifyTriggerMood(avg); got != want {
			t.Errorf("ClassifyTriggerMood(%v) = %s, want %s", avg, got, want)
		}
	}
}

func TestTimeOfDayHeatmap(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 10, 14, hour, 0, 0, 0, testLoc)
	}
	entries := []LogEntry{
		entryAt(at(6), 8, SentimentPositive),
		entryAt(at(14), 5, SentimentNeutral),
		entryAt(at(22), 2, SentimentNegative),
	}

	h := TimeOfDayHeatmap(entries, testLoc)
	if h.Morning.Average != 8 || h.Afternoon.Average != 5 || h.Evening.Average != 2 {
		t.Errorf("Unexpected averages: morning %v afternoon %v evening %v", h.Morning.Average, h.Afternoon.Average, h.Evening.Average)
	}

	slots := h.Slots()
	if slots[0].Slot != SlotMorning || slots[1].Slot != SlotAfternoon || slots[2].Slot != SlotEvening {
		t.Errorf("Slots out of order: %+v", slots)
	}
}

func TestTimeOfDayHeatmap_BoundariesAndEmpty(t *testing.T) {
	h := TimeOfDayHeatmap(nil, testLoc)
	for _, s := range h.Slots() {
		if s.Count != 0 || s.Average != 0 {
			t.Errorf("Expected empty slot %s to be zero, got %+v", s.Slot, s)
		}
	}

	hours := map[int]TimeSlot{
		0: SlotEvening, 4: SlotEvening, 5: SlotMorning, 11: SlotMorning,
		12: SlotAfternoon, 16: SlotAfternoon, 17: SlotEvening, 23: SlotEvening,
	}
	for hour, want := range hours {
		if got := SlotForHour(hour); got != want {
			t.Errorf("SlotForHour(%d) = %s, want %s", hour, got, want)
		}
	}

	// Hour is read in the supplied zone: 03:00 UTC is 05:00 in testLoc.
	utc := time.Date(2026, 10, 14, 3, 0, 0, 0, time.UTC)
	h = TimeOfDayHeatmap([]LogEntry{entryAt(utc, 4, SentimentNeutral)}, testLoc)
	if h.Morning.Count != 1 {
		t.Errorf("Expected the entry in the Morning slot, got %+v", h)
	}
}

func TestDetectSpiral(t *testing.T) {
	e := func(n float64, s Sentiment) LogEntry { return entryAt(daysAgo(n), 3, s) }

	tests := []struct {
		name    string
		entries []LogEntry
		want    bool
	}{
		{"empty", nil, false},
		{"two negatives", []LogEntry{e(0, SentimentNegative), e(1, SentimentAnxious)}, false},
		{"three negatives", []LogEntry{e(0, SentimentNegative), e(1, SentimentAnxious), e(2, SentimentNegative)}, true},
		{"broken by positive", []LogEntry{e(0, SentimentNegative), e(1, SentimentPositive), e(2, SentimentNegative)}, false},
		{"older positive ignored", []LogEntry{e(0, SentimentAnxious), e(1, SentimentAnxious), e(2, SentimentNegative), e(3, SentimentPositive)}, true},
		{
			"sorted by timestamp not input order",
			[]LogEntry{e(5, SentimentPositive), e(0, SentimentNegative), e(1, SentimentNegative), e(2, SentimentAnxious)},
			true,
		},
		{
			"newest positive given last",
			[]LogEntry{e(1, SentimentNegative), e(2, SentimentNegative), e(3, SentimentNegative), e(0, SentimentHopeful)},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectSpiral(tt.entries); got != tt.want {
				t.Errorf("DetectSpiral = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestDetectSpiral_DoesNotReorderInput(t *testing.T) {
	entries := []LogEntry{
		entryAt(daysAgo(3), 3, SentimentNegative),
		entryAt(daysAgo(0), 3, SentimentNegative),
		entryAt(daysAgo(1), 3, SentimentNegative),
	}
	before := append([]LogEntry(nil), entries...)
	DetectSpiral(entries)
	if !reflect.DeepEqual(before, entries) {
		t.Errorf("DetectSpiral mutated its input")
	}
}

func TestAnalyze_EmptyAndIdempotent(t *testing.T) {
	empty := Analyze(nil, refNow, testLoc)
	if len(empty.Window) != 0 || empty.ConsistencyScore != 0 || len(empty.TopEmotions) != 0 ||
		len(empty.TriggerMap) != 0 || empty.IsSpiral {
		t.Errorf("Unexpected insights for empty input: %+v", empty)
	}
	for _, s := range empty.TimeSlots.Slots() {
		if s.Average != 0 {
			t.Errorf("Expected zero average for %s", s.Slot)
		}
	}

	entries := []LogEntry{
		entryAt(daysAgo(0), 2, SentimentAnxious, "work"),
		entryAt(daysAgo(1), 3, SentimentNegative, "work", "sleep"),
		entryAt(daysAgo(2), 4, SentimentNegative),
		entryAt(daysAgo(12), 9, SentimentHopeful, "gym"),
	}
	first := Analyze(entries, refNow, testLoc)
	second := Analyze(entries, refNow, testLoc)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze is not idempotent")
	}

	if len(first.Window) != 3 {
		t.Errorf("Expected 3 entries in the window, got %d", len(first.Window))
	}
	if first.ConsistencyScore < 0 || first.ConsistencyScore > 100 {
		t.Errorf("Consistency out of range: %d", first.ConsistencyScore)
	}
	if !first.IsSpiral {
		t.Errorf("Expected a spiral for three negative newest entries")
	}
	if len(first.TriggerMap) != 3 || first.TriggerMap[0].Tag != "gym" {
		t.Errorf("Trigger map should span all history, got %+v", first.TriggerMap)
	}
}
