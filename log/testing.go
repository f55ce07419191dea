package log

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TestLogger records every call instead of writing anywhere, so a test can
// assert on what retry.Engine/gate.Gate/plugin.LoggingPlugin logged without
// parsing console output.
type TestLogger struct {
	logs []LogEntry
	mu   sync.RWMutex
}

// LogEntry is one recorded call. Fields is keyed by the field's own Key(),
// not by call position, so a test can look up "http.status" directly
// instead of guessing which positional field it was.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
	Time    time.Time
}

// NewTestLogger builds a Logger that records its calls for later
// inspection via GetLogs/GetLogsByLevel/AssertHasLog/CountLogs.
func NewTestLogger() *TestLogger {
	return &TestLogger{
		logs: make([]LogEntry, 0),
	}
}

func (tl *TestLogger) Debug(msg string, fields ...Field) { tl.addLog("DEBUG", msg, fields) }
func (tl *TestLogger) Info(msg string, fields ...Field)  { tl.addLog("INFO", msg, fields) }
func (tl *TestLogger) Warn(msg string, fields ...Field)  { tl.addLog("WARN", msg, fields) }
func (tl *TestLogger) Error(msg string, fields ...Field) { tl.addLog("ERROR", msg, fields) }
func (tl *TestLogger) Fatal(msg string, fields ...Field) { tl.addLog("FATAL", msg, fields) }

func (tl *TestLogger) Debugf(template string, args ...any) {
	tl.addLog("DEBUG", fmt.Sprintf(template, args...), nil)
}

func (tl *TestLogger) Infof(template string, args ...any) {
	tl.addLog("INFO", fmt.Sprintf(template, args...), nil)
}

func (tl *TestLogger) Warnf(template string, args ...any) {
	tl.addLog("WARN", fmt.Sprintf(template, args...), nil)
}

func (tl *TestLogger) Errorf(template string, args ...any) {
	tl.addLog("ERROR", fmt.Sprintf(template, args...), nil)
}

func (tl *TestLogger) Fatalf(template string, args ...any) {
	tl.addLog("FATAL", fmt.Sprintf(template, args...), nil)
}

// With is a no-op on TestLogger: fields passed to With aren't prepended to
// later calls, since every addLog call already records its own fields
// keyed by name — a test asserting on a With-derived logger's output
// should look at the fields passed to the logging call itself.
func (tl *TestLogger) With(fields ...Field) Logger { return tl }

func (tl *TestLogger) WithContext(ctx context.Context) Logger { return tl }

func (tl *TestLogger) Named(name string) Logger { return tl }

func (tl *TestLogger) Sync() error { return nil }

func (tl *TestLogger) addLog(level, msg string, fields []Field) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	fieldMap := make(map[string]any, len(fields))
	for _, field := range fields {
		if field != nil {
			fieldMap[field.Key()] = field.Value()
		}
	}

	tl.logs = append(tl.logs, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  fieldMap,
		Time:    time.Now(),
	})
}

// GetLogs returns all logged entries.
func (tl *TestLogger) GetLogs() []LogEntry {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	logs := make([]LogEntry, len(tl.logs))
	copy(logs, tl.logs)

	return logs
}

// GetLogsByLevel returns logs filtered by level.
func (tl *TestLogger) GetLogsByLevel(level string) []LogEntry {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	var filtered []LogEntry

	for _, entry := range tl.logs {
		if entry.Level == level {
			filtered = append(filtered, entry)
		}
	}

	return filtered
}

// Clear clears all log entries.
func (tl *TestLogger) Clear() {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.logs = nil
}

// AssertHasLog reports whether a log at level with the exact message was recorded.
func (tl *TestLogger) AssertHasLog(level, message string) bool {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	for _, entry := range tl.logs {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}

	return false
}

// CountLogs returns the count of logs at a specific level.
func (tl *TestLogger) CountLogs(level string) int {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	count := 0

	for _, entry := range tl.logs {
		if entry.Level == level {
			count++
		}
	}

	return count
}
