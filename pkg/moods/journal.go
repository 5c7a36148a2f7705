package moods

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/unowned-ai/moodlog/pkg/logging"
)

var (
	ErrInvalidEntry = errors.New("invalid mood log")
)

// StorageKey is the single key the whole collection is persisted under.
const StorageKey = "sentience_mood_logs"

// Store is the key-value persistence the journal reads from and writes to.
// Get reports ok == false when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Journal owns the in-memory mood log collection, newest first, and keeps
// it in sync with a Store. AddLog is the only mutation.
type Journal struct {
	store Store
	clock Clock
	loc   *time.Location
	key   string

	mu   sync.RWMutex
	logs []LogEntry
	gen  uint64

	// cached snapshot; reset on every write and reused within one minute
	cached    *Insights
	cachedFor time.Time
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock injects the clock used for new entries and for analytics.
func WithClock(c Clock) Option {
	return func(j *Journal) {
		if c != nil {
			j.clock = c
		}
	}
}

// WithLocation sets the zone used for weekday labels, calendar dates and
// hours of day.
func WithLocation(loc *time.Location) Option {
	return func(j *Journal) {
		if loc != nil {
			j.loc = loc
		}
	}
}

// WithStorageKey overrides StorageKey.
func WithStorageKey(key string) Option {
	return func(j *Journal) {
		if key != "" {
			j.key = key
		}
	}
}

// Open creates a Journal and loads the persisted collection. Malformed
// persisted data is discarded with a warning and the journal starts empty;
// only store failures are returned.
func Open(ctx context.Context, store Store, opts ...Option) (*Journal, error) {
	if store == nil {
		return nil, errors.New("mood journal requires a store")
	}

	j := &Journal{
		store: store,
		clock: SystemClock,
		loc:   time.Local,
		key:   StorageKey,
	}
	for _, opt := range opts {
		opt(j)
	}

	if err := j.Reload(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

// Reload replaces the in-memory collection with the persisted one.
func (j *Journal) Reload(ctx context.Context) error {
	raw, ok, err := j.store.Get(ctx, j.key)
	if err != nil {
		return fmt.Errorf("failed to read mood logs from store: %w", err)
	}

	logs := []LogEntry{}
	if ok {
		decoded, err := DecodeLogs(raw, j.clock.Now(), j.loc)
		if err != nil {
			logging.Warn("discarding malformed mood logs", "key", j.key, "err", err)
		} else {
			logs = decoded
		}
	}

	sort.SliceStable(logs, func(a, b int) bool {
		return logs[a].Timestamp.After(logs[b].Timestamp)
	})

	j.mu.Lock()
	j.logs = logs
	j.gen++
	j.cached = nil
	j.mu.Unlock()

	logging.Debug("mood logs loaded", "key", j.key, "count", len(logs))
	return nil
}

// AddLog validates in, stamps it with an id, the current instant and its
// weekday, prepends it and persists the whole collection. The in-memory
// collection is left untouched when persisting fails.
func (j *Journal) AddLog(ctx context.Context, in LogInput) (LogEntry, error) {
	valid, err := in.Validate()
	if err != nil {
		return LogEntry{}, err
	}

	now := j.clock.Now()
	entry := LogEntry{
		ID:        uuid.NewString(),
		Day:       DayLabel(now, j.loc),
		Value:     valid.Value,
		Sentiment: valid.Sentiment,
		Tags:      valid.Tags,
		Timestamp: now,
		Note:      valid.Note,
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	updated := make([]LogEntry, 0, len(j.logs)+1)
	updated = append(updated, entry)
	updated = append(updated, j.logs...)

	raw, err := EncodeLogs(updated)
	if err != nil {
		return LogEntry{}, err
	}
	if err := j.store.Set(ctx, j.key, raw); err != nil {
		return LogEntry{}, fmt.Errorf("failed to persist mood logs: %w", err)
	}

	j.logs = updated
	j.gen++
	j.cached = nil
	logging.Info("mood logged", "id", entry.ID, "value", entry.Value, "sentiment", entry.Sentiment)
	return entry, nil
}

// Logs returns a copy of the collection, newest first.
func (j *Journal) Logs() []LogEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]LogEntry, len(j.logs))
	copy(out, j.logs)
	return out
}

// Insights returns the derived views as of the clock's current instant.
func (j *Journal) Insights() Insights {
	now := j.clock.Now()
	minute := now.Truncate(time.Minute)

	j.mu.RLock()
	if j.cached != nil && j.cachedFor.Equal(minute) {
		in := cloneInsights(*j.cached)
		j.mu.RUnlock()
		return in
	}
	logs, gen := j.logs, j.gen
	j.mu.RUnlock()

	in := Analyze(logs, now, j.loc)

	j.mu.Lock()
	if j.gen == gen {
		j.cached = &in
		j.cachedFor = minute
	}
	j.mu.Unlock()
	return cloneInsights(in)
}

// cloneInsights copies every slice so callers cannot reach the cached
// snapshot or the journal's entries.
func cloneInsights(in Insights) Insights {
	in.Window = slices.Clone(in.Window)
	for i := range in.Window {
		in.Window[i].Tags = slices.Clone(in.Window[i].Tags)
	}
	in.TopEmotions = slices.Clone(in.TopEmotions)
	in.TriggerMap = slices.Clone(in.TriggerMap)
	return in
}

// Location is the zone used for calendar-dependent analytics.
func (j *Journal) Location() *time.Location {
	return j.loc
}
