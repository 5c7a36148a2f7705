package moods

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

// mapStore is a minimal Store for exercising the journal without a backend.
type mapStore struct {
	mu      sync.Mutex
	values  map[string]string
	setErr  error
	getErr  error
	setCall int
}

func newMapStore() *mapStore { return &mapStore{values: map[string]string{}} }

func (m *mapStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCall++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

// stepClock returns now and advances by step on every call.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func openTestJournal(t *testing.T, store Store, clock Clock) *Journal {
	t.Helper()
	j, err := Open(context.Background(), store, WithClock(clock), WithLocation(testLoc))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return j
}

func TestJournal_AddLogRoundTrip(t *testing.T) {
	store := newMapStore()
	clock := ClockFunc(func() time.Time { return refNow })
	j := openTestJournal(t, store, clock)

	entry, err := j.AddLog(context.Background(), LogInput{Value: 7, Sentiment: SentimentHopeful, Tags: []string{"gym"}})
	if err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	if entry.ID == "" {
		t.Errorf("Expected an id to be synthesised")
	}
	if entry.Day != "Wed" {
		t.Errorf("Expected weekday label Wed, got %s", entry.Day)
	}
	if !entry.Timestamp.Equal(refNow) {
		t.Errorf("Expected timestamp from the injected clock, got %v", entry.Timestamp)
	}

	if _, ok := store.values[StorageKey]; !ok {
		t.Fatalf("Expected collection to be persisted under %s", StorageKey)
	}

	reloaded := openTestJournal(t, store, clock)
	logs := reloaded.Logs()
	if len(logs) != 1 {
		t.Fatalf("Expected 1 entry after reload, got %d", len(logs))
	}
	got := logs[0]
	if got.ID != entry.ID || got.Day != entry.Day || got.Value != 7 || got.Sentiment != SentimentHopeful ||
		!reflect.DeepEqual(got.Tags, []string{"gym"}) || !got.Timestamp.Equal(entry.Timestamp) {
		t.Errorf("Reloaded entry differs.\nwrote: %+v\nread:  %+v", entry, got)
	}
}

func TestJournal_AddLogPrependsNewestFirst(t *testing.T) {
	clock := &stepClock{now: refNow, step: time.Hour}
	j := openTestJournal(t, newMapStore(), clock)

	ctx := context.Background()
	first, _ := j.AddLog(ctx, LogInput{Value: 4, Sentiment: SentimentNeutral})
	second, _ := j.AddLog(ctx, LogInput{Value: 6, Sentiment: SentimentPositive})

	logs := j.Logs()
	if len(logs) != 2 || logs[0].ID != second.ID || logs[1].ID != first.ID {
		t.Errorf("Expected newest entry first, got %+v", logs)
	}
	if first.ID == second.ID {
		t.Errorf("Expected unique ids")
	}
}

func TestJournal_AddLogValidation(t *testing.T) {
	store := newMapStore()
	j := openTestJournal(t, store, ClockFunc(func() time.Time { return refNow }))

	tests := []LogInput{
		{Value: 0, Sentiment: SentimentNeutral},
		{Value: 11, Sentiment: SentimentNeutral},
		{Value: 5, Sentiment: "Elated"},
		{Value: 5},
	}
	for _, in := range tests {
		if _, err := j.AddLog(context.Background(), in); !errors.Is(err, ErrInvalidEntry) {
			t.Errorf("AddLog(%+v) error = %v, want ErrInvalidEntry", in, err)
		}
	}
	if store.setCall != 0 {
		t.Errorf("Rejected entries must not reach the store, got %d writes", store.setCall)
	}
	if len(j.Logs()) != 0 {
		t.Errorf("Rejected entries must not reach the collection")
	}
}

func TestJournal_AddLogNormalisesTags(t *testing.T) {
	j := openTestJournal(t, newMapStore(), ClockFunc(func() time.Time { return refNow }))

	entry, err := j.AddLog(context.Background(), LogInput{
		Value:     5,
		Sentiment: SentimentNeutral,
		Tags:      []string{" work ", "work", "", "sleep"},
		Note:      "  tired  ",
	})
	if err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	if !reflect.DeepEqual(entry.Tags, []string{"work", "sleep"}) {
		t.Errorf("Expected trimmed, de-duplicated tags, got %v", entry.Tags)
	}
	if entry.Note != "tired" {
		t.Errorf("Expected trimmed note, got %q", entry.Note)
	}
}

func TestJournal_PersistFailureLeavesCollection(t *testing.T) {
	store := newMapStore()
	j := openTestJournal(t, store, ClockFunc(func() time.Time { return refNow }))

	store.setErr = errors.New("disk full")
	if _, err := j.AddLog(context.Background(), LogInput{Value: 5, Sentiment: SentimentNeutral}); err == nil {
		t.Fatal("Expected AddLog to fail when the store fails")
	}
	if len(j.Logs()) != 0 {
		t.Errorf("Collection changed despite the failed write")
	}
}

func TestJournal_MalformedDataStartsEmpty(t *testing.T) {
	store := newMapStore()
	store.values[StorageKey] = "not json at all"

	j := openTestJournal(t, store, ClockFunc(func() time.Time { return refNow }))
	if len(j.Logs()) != 0 {
		t.Errorf("Expected empty collection after malformed data")
	}

	if _, err := j.AddLog(context.Background(), LogInput{Value: 5, Sentiment: SentimentNeutral}); err != nil {
		t.Fatalf("AddLog after recovery failed: %v", err)
	}
	if _, err := DecodeLogs(store.values[StorageKey], refNow, testLoc); err != nil {
		t.Errorf("Expected the bad data to be replaced by a valid collection: %v", err)
	}
}

func TestJournal_OddRecordKeepsHistory(t *testing.T) {
	store := newMapStore()
	store.values[StorageKey] = `[
		{"id":"kept","day":"Mon","value":6,"sentiment":"Neutral","tags":["work"],"timestamp":"2026-10-12T09:00:00.000Z"},
		{"id":"millis","day":"Sun","value":7,"sentiment":"Hopeful","tags":[],"timestamp":1760000000000}
	]`

	j := openTestJournal(t, store, ClockFunc(func() time.Time { return refNow }))
	if len(j.Logs()) != 2 {
		t.Fatalf("Expected both records to load, got %+v", j.Logs())
	}

	if _, err := j.AddLog(context.Background(), LogInput{Value: 5, Sentiment: SentimentNeutral}); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	persisted, err := DecodeLogs(store.values[StorageKey], refNow, testLoc)
	if err != nil {
		t.Fatalf("DecodeLogs failed: %v", err)
	}
	if len(persisted) != 3 {
		t.Errorf("Expected the earlier history to be persisted with the new log, got %d entries", len(persisted))
	}
}

func TestJournal_InsightsAreIsolatedCopies(t *testing.T) {
	j := openTestJournal(t, newMapStore(), ClockFunc(func() time.Time { return refNow }))
	if _, err := j.AddLog(context.Background(), LogInput{Value: 8, Sentiment: SentimentHopeful, Tags: []string{"gym"}}); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}

	first := j.Insights()
	first.TriggerMap[0].Tag = "changed"
	first.TopEmotions[0].Count = 99
	first.Window[0].Tags[0] = "changed"
	first.Window[0].Value = 1

	second := j.Insights()
	if second.TriggerMap[0].Tag != "gym" || second.TopEmotions[0].Count != 1 {
		t.Errorf("Changes to a returned snapshot leaked into the cache: %+v", second)
	}
	if second.Window[0].Tags[0] != "gym" || second.Window[0].Value != 8 {
		t.Errorf("Changes to the returned window leaked into the cache: %+v", second.Window[0])
	}

	second.TriggerMap[0].Tag = "again"
	if third := j.Insights(); third.TriggerMap[0].Tag != "gym" {
		t.Errorf("Cached snapshot shared with a cache-hit result: %+v", third.TriggerMap)
	}
}

func TestJournal_StoreReadError(t *testing.T) {
	store := newMapStore()
	store.getErr = errors.New("connection refused")

	if _, err := Open(context.Background(), store); err == nil {
		t.Fatal("Expected Open to surface store read errors")
	}
	if _, err := Open(context.Background(), nil); err == nil {
		t.Fatal("Expected Open to reject a nil store")
	}
}

func TestJournal_LoadSortsNewestFirst(t *testing.T) {
	older := entryAt(daysAgo(2), 4, SentimentNeutral)
	newer := entryAt(daysAgo(1), 6, SentimentPositive)
	raw, err := EncodeLogs([]LogEntry{older, newer})
	if err != nil {
		t.Fatalf("EncodeLogs failed: %v", err)
	}

	store := newMapStore()
	store.values[StorageKey] = raw
	j := openTestJournal(t, store, ClockFunc(func() time.Time { return refNow }))

	logs := j.Logs()
	if logs[0].ID != newer.ID || logs[1].ID != older.ID {
		t.Errorf("Expected load to order newest first, got %+v", logs)
	}
}

func TestJournal_InsightsInvalidatedByAddLog(t *testing.T) {
	j := openTestJournal(t, newMapStore(), ClockFunc(func() time.Time { return refNow }))
	ctx := context.Background()

	if in := j.Insights(); len(in.Window) != 0 {
		t.Fatalf("Expected empty insights, got %+v", in)
	}

	for i := 0; i < 3; i++ {
		if _, err := j.AddLog(ctx, LogInput{Value: 2, Sentiment: SentimentAnxious, Tags: []string{"work"}}); err != nil {
			t.Fatalf("AddLog failed: %v", err)
		}
	}

	first := j.Insights()
	if len(first.Window) != 3 || !first.IsSpiral || first.ConsistencyScore != 14 {
		t.Errorf("Insights not refreshed after AddLog: %+v", first)
	}
	if !reflect.DeepEqual(first, j.Insights()) {
		t.Errorf("Repeated Insights on unchanged data differ")
	}
}

func TestJournal_WithStorageKey(t *testing.T) {
	store := newMapStore()
	j, err := Open(context.Background(), store, WithStorageKey("other"), WithClock(ClockFunc(func() time.Time { return refNow })))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := j.AddLog(context.Background(), LogInput{Value: 5, Sentiment: SentimentNeutral}); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	if _, ok := store.values["other"]; !ok {
		t.Errorf("Expected collection under the custom key")
	}
	if _, ok := store.values[StorageKey]; ok {
		t.Errorf("Default key should be untouched")
	}
}
