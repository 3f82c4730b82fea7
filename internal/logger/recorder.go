package logger

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

const defaultRecentEntries = 500

// LogEntry is one parsed log line kept for the logs endpoint.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Recorder implements io.Writer and keeps the most recent JSON log entries
// in memory.
type Recorder struct {
	buffer *RingBuffer[LogEntry]
}

// NewRecorder creates a recorder holding up to size entries.
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = defaultRecentEntries
	}
	return &Recorder{buffer: NewRingBuffer[LogEntry](size)}
}

// Write implements io.Writer. It receives JSON log entries from zerolog.
func (r *Recorder) Write(p []byte) (n int, err error) {
	n = len(p)

	entry, parseErr := parseLogEntry(p)
	if parseErr != nil {
		return n, nil //nolint:nilerr // Silently ignore malformed log entries
	}
	r.buffer.Push(entry)
	return n, nil
}

// Entries returns the buffered entries, oldest first.
func (r *Recorder) Entries() []LogEntry {
	return r.buffer.GetAll()
}

func parseLogEntry(data []byte) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, err
	}

	entry := LogEntry{}
	take := func(key string) string {
		s, _ := raw[key].(string)
		delete(raw, key)
		return s
	}
	entry.Timestamp = take(zerolog.TimestampFieldName)
	entry.Level = take(zerolog.LevelFieldName)
	entry.Component = take("component")
	entry.Message = take(zerolog.MessageFieldName)

	if len(raw) > 0 {
		entry.Fields = raw
	}
	return entry, nil
}
