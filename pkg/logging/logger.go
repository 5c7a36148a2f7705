package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// LogEntry represents a single log entry kept in the recent-logs buffer.
type LogEntry struct {
	Time    time.Time
	Level   string
	Message string
	KeyVals []interface{}
}

const maxLogEntries = 50

var (
	// Logger is the global logger instance. It always writes to stderr by
	// default so stdout stays free for CLI output and MCP JSON-RPC.
	Logger = newLogger(os.Stderr, log.WarnLevel)

	recentLogs   = make([]LogEntry, maxLogEntries)
	recentLogsMu sync.RWMutex
	logIndex     int
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "moodlog",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
}

// Init replaces the global logger. level is one of debug, info, warn, error.
func Init(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if w == nil {
		w = os.Stderr
	}
	Logger = newLogger(w, lvl)
	return nil
}

func addToBuffer(level, msg string, keyvals []interface{}) {
	recentLogsMu.Lock()
	defer recentLogsMu.Unlock()

	recentLogs[logIndex] = LogEntry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		KeyVals: keyvals,
	}
	logIndex = (logIndex + 1) % maxLogEntries
}

// RecentLogs returns up to count of the most recent entries, newest first.
func RecentLogs(count int) []LogEntry {
	recentLogsMu.RLock()
	defer recentLogsMu.RUnlock()

	if count > maxLogEntries {
		count = maxLogEntries
	}

	result := make([]LogEntry, 0, count)
	idx := (logIndex - 1 + maxLogEntries) % maxLogEntries
	for i := 0; i < count; i++ {
		entry := recentLogs[idx]
		if entry.Time.IsZero() {
			break
		}
		result = append(result, entry)
		idx = (idx - 1 + maxLogEntries) % maxLogEntries
	}

	return result
}

// Format renders an entry as a single line for display.
func (e LogEntry) Format() string {
	if e.Time.IsZero() {
		return ""
	}

	var kvParts []string
	for i := 0; i < len(e.KeyVals)-1; i += 2 {
		key := fmt.Sprintf("%v", e.KeyVals[i])
		val := fmt.Sprintf("%v", e.KeyVals[i+1])
		if len(val) > 40 {
			val = val[:37] + "..."
		}
		kvParts = append(kvParts, fmt.Sprintf("%s=%s", key, val))
	}

	kvStr := ""
	if len(kvParts) > 0 {
		kvStr = " " + strings.Join(kvParts, " ")
	}

	return fmt.Sprintf("%s [%s] %s%s", e.Time.Format("15:04:05"), e.Level, e.Message, kvStr)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	addToBuffer("DEBUG", msg, keyvals)
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	addToBuffer("INFO", msg, keyvals)
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	addToBuffer("WARN", msg, keyvals)
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	addToBuffer("ERROR", msg, keyvals)
	Logger.Error(msg, keyvals...)
}
