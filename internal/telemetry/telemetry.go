// Package telemetry provides the structured JSON event logger attached to
// engine runs. A Logger is ambient: pkg/msm never requires one, and a nil
// *Logger is a safe no-op.
package telemetry

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

// Logger emits one JSON object per event to the standard log package.
// Component identifies the subsystem (e.g. "engine", "observer") in every
// event it emits.
type Logger struct {
	Component string
	RunID     string
}

// NewLogger returns a Logger for component, stamped with a fresh run
// correlation ID.
func NewLogger(component string) *Logger {
	return &Logger{Component: component, RunID: uuid.NewString()}
}

// Event logs eventType with the given fields plus the standard envelope
// (timestamp, level, component, event_type, run_id).
func (l *Logger) Event(eventType string, fields map[string]any) {
	if l == nil {
		return
	}

	data := make(map[string]any, len(fields)+5)
	for k, v := range fields {
		data[k] = v
	}
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}
	data["component"] = l.Component
	data["event_type"] = eventType
	data["run_id"] = l.RunID

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[%s] failed to marshal log event %s: %v", l.Component, eventType, err)
		return
	}

	log.Println(string(jsonData))
}

// Errorf logs eventType at error level with an "error" field set to err's
// message, plus any additional fields.
func (l *Logger) Errorf(eventType string, err error, fields map[string]any) {
	if l == nil {
		return
	}

	data := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		data[k] = v
	}
	data["level"] = "error"
	data["error"] = err.Error()

	l.Event(eventType, data)
}
