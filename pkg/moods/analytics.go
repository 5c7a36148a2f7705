package moods

import (
	"math"
	"sort"
	"time"
)

const (
	DefaultWindowDays  = 7
	DefaultTopEmotions = 3
	DefaultMaxTags     = 20

	// SpiralLength is how many of the newest entries must all be negative.
	SpiralLength = 3

	day = 24 * time.Hour
)

// EmotionCount is one row of the top-emotions ranking.
type EmotionCount struct {
	Name  Sentiment `json:"name"`
	Count int       `json:"count"`
}

// TagTrigger is the aggregate mood recorded alongside one tag.
type TagTrigger struct {
	Tag               string      `json:"tag"`
	AvgMood           float64     `json:"avgMood"`
	DominantSentiment TriggerMood `json:"dominantSentiment"`
	Count             int         `json:"count"`
}

// TimeSlot names a part of the day used by the heatmap.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "Morning"
	SlotAfternoon TimeSlot = "Afternoon"
	SlotEvening   TimeSlot = "Evening"
)

// SlotStats accumulates mood values logged during one time slot.
type SlotStats struct {
	Slot    TimeSlot `json:"slot"`
	Total   int      `json:"total"`
	Count   int      `json:"count"`
	Average float64  `json:"average"`
}

// Heatmap holds the three time-of-day buckets.
type Heatmap struct {
	Morning   SlotStats `json:"Morning"`
	Afternoon SlotStats `json:"Afternoon"`
	Evening   SlotStats `json:"Evening"`
}

// Slots returns the buckets in chronological order.
func (h Heatmap) Slots() []SlotStats {
	return []SlotStats{h.Morning, h.Afternoon, h.Evening}
}

// roundHalfUp rounds x to the nearest integer with halves going up
// (-0.5 rounds to 0, unlike math.Round).
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// ageInDays is ceil(|now - t| / 24h).
func ageInDays(now, t time.Time) int64 {
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	return int64(math.Ceil(float64(d) / float64(day)))
}

// SelectRecentWindow returns the entries whose age in whole days, rounded
// up, is at most days. Entries dated in the future count by absolute
// distance. Input order is preserved.
func SelectRecentWindow(entries []LogEntry, now time.Time, days int) []LogEntry {
	window := make([]LogEntry, 0, len(entries))
	for _, e := range entries {
		if ageInDays(now, e.Timestamp) <= int64(days) {
			window = append(window, e)
		}
	}
	return window
}

// ConsistencyScore is the percentage of the window's days that carry at
// least one entry. Days are calendar dates in loc.
func ConsistencyScore(window []LogEntry, days int, loc *time.Location) int {
	if days <= 0 {
		return 0
	}
	if loc == nil {
		loc = time.Local
	}

	dates := make(map[string]struct{}, len(window))
	for _, e := range window {
		dates[e.Timestamp.In(loc).Format("2006-01-02")] = struct{}{}
	}

	// A trailing window of N*24h can straddle N+1 calendar dates.
	distinct := len(dates)
	if distinct > days {
		distinct = days
	}
	return int(roundHalfUp(float64(distinct) / float64(days) * 100))
}

// TopEmotions ranks sentiments by frequency. Ties keep the order in which
// each sentiment first appears in window.
func TopEmotions(window []LogEntry, k int) []EmotionCount {
	counts := make([]EmotionCount, 0, len(Sentiments))
	index := make(map[Sentiment]int, len(Sentiments))
	for _, e := range window {
		i, ok := index[e.Sentiment]
		if !ok {
			i = len(counts)
			index[e.Sentiment] = i
			counts = append(counts, EmotionCount{Name: e.Sentiment})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if k >= 0 && len(counts) > k {
		counts = counts[:k]
	}
	return counts
}

// ClassifyTriggerMood buckets an average mood into a TriggerMood.
func ClassifyTriggerMood(avg float64) TriggerMood {
	switch {
	case avg > 7:
		return TriggerEnergized
	case avg < 4:
		return TriggerAnxious
	default:
		return TriggerNeutral
	}
}

// TriggerMap aggregates the mood value per tag across all entries. A tag
// listed twice on one entry counts once. The result is sorted by average
// mood, highest first, ties in first-seen order, and truncated to maxTags
// (no limit when maxTags <= 0).
func TriggerMap(entries []LogEntry, maxTags int) []TagTrigger {
	type acc struct {
		total int
		count int
	}

	var order []string
	totals := make(map[string]*acc)
	for _, e := range entries {
		seen := make(map[string]bool, len(e.Tags))
		for _, tag := range e.Tags {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true

			a, ok := totals[tag]
			if !ok {
				a = &acc{}
				totals[tag] = a
				order = append(order, tag)
			}
			a.total += e.Value
			a.count++
		}
	}

	triggers := make([]TagTrigger, 0, len(order))
	for _, tag := range order {
		a := totals[tag]
		avg := roundHalfUp(float64(a.total)/float64(a.count)*10) / 10
		triggers = append(triggers, TagTrigger{
			Tag:               tag,
			AvgMood:           avg,
			DominantSentiment: ClassifyTriggerMood(avg),
			Count:             a.count,
		})
	}

	sort.SliceStable(triggers, func(i, j int) bool {
		return triggers[i].AvgMood > triggers[j].AvgMood
	})

	if maxTags > 0 && len(triggers) > maxTags {
		triggers = triggers[:maxTags]
	}
	return triggers
}

// SlotForHour maps a local hour to its heatmap bucket: Morning is
// [5,12), Afternoon [12,17) and everything else is Evening.
func SlotForHour(hour int) TimeSlot {
	switch {
	case hour >= 5 && hour < 12:
		return SlotMorning
	case hour >= 12 && hour < 17:
		return SlotAfternoon
	default:
		return SlotEvening
	}
}

// TimeOfDayHeatmap averages mood values per time slot over all entries.
// Empty slots average to 0.
func TimeOfDayHeatmap(entries []LogEntry, loc *time.Location) Heatmap {
	if loc == nil {
		loc = time.Local
	}

	h := Heatmap{
		Morning:   SlotStats{Slot: SlotMorning},
		Afternoon: SlotStats{Slot: SlotAfternoon},
		Evening:   SlotStats{Slot: SlotEvening},
	}
	for _, e := range entries {
		var s *SlotStats
		switch SlotForHour(e.Timestamp.In(loc).Hour()) {
		case SlotMorning:
			s = &h.Morning
		case SlotAfternoon:
			s = &h.Afternoon
		default:
			s = &h.Evening
		}
		s.Total += e.Value
		s.Count++
	}

	for _, s := range []*SlotStats{&h.Morning, &h.Afternoon, &h.Evening} {
		if s.Count > 0 {
			s.Average = float64(s.Total) / float64(s.Count)
		}
	}
	return h
}

// DetectSpiral reports whether the SpiralLength newest entries are all
// Negative or Anxious. Entries are ordered by timestamp here rather than
// trusting the caller; equal timestamps keep their given order.
func DetectSpiral(entries []LogEntry) bool {
	if len(entries) < SpiralLength {
		return false
	}

	newest := make([]LogEntry, len(entries))
	copy(newest, entries)
	sort.SliceStable(newest, func(i, j int) bool {
		return newest[i].Timestamp.After(newest[j].Timestamp)
	})

	for _, e := range newest[:SpiralLength] {
		if !e.Sentiment.negative() {
			return false
		}
	}
	return true
}

// Insights bundles every derived view computed at one instant.
type Insights struct {
	GeneratedAt      time.Time      `json:"generatedAt"`
	WindowDays       int            `json:"windowDays"`
	Window           []LogEntry     `json:"last7Days"`
	ConsistencyScore int            `json:"consistencyScore"`
	TopEmotions      []EmotionCount `json:"topEmotions"`
	TriggerMap       []TagTrigger   `json:"triggerMap"`
	TimeSlots        Heatmap        `json:"timeSlots"`
	IsSpiral         bool           `json:"isSpiral"`
}

// Analyze computes all derived views with the default window, ranking and
// tag limits.
func Analyze(entries []LogEntry, now time.Time, loc *time.Location) Insights {
	window := SelectRecentWindow(entries, now, DefaultWindowDays)
	return Insights{
		GeneratedAt:      now,
		WindowDays:       DefaultWindowDays,
		Window:           window,
		ConsistencyScore: ConsistencyScore(window, DefaultWindowDays, loc),
		TopEmotions:      TopEmotions(window, DefaultTopEmotions),
		TriggerMap:       TriggerMap(entries, DefaultMaxTags),
		TimeSlots:        TimeOfDayHeatmap(entries, loc),
		IsSpiral:         DetectSpiral(entries),
	}
}
