// Package logging writes one JSON object per line to a configurable sink.
// Call sites pass an optional Fields map; the level, ts and msg keys are
// reserved and overwrite collisions.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Fields map[string]interface{}

const (
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
	levelFatal = "fatal"
)

var (
	mu   sync.Mutex
	sink io.Writer = os.Stderr

	now  = time.Now
	exit = os.Exit
)

// SetOutput redirects log lines, primarily for tests. Returns the previous
// sink.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := sink
	sink = w
	return prev
}

func emit(level, msg string, err error, fields Fields) {
	entry := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["level"] = level
	entry["ts"] = now().UTC().Format(time.RFC3339)
	entry["msg"] = msg
	if err != nil {
		entry["error"] = err.Error()
	}

	line, marshalErr := json.Marshal(entry)
	mu.Lock()
	defer mu.Unlock()
	if marshalErr != nil {
		fmt.Fprintf(sink, "%s: %s (unmarshalable fields)\n", level, msg)
		return
	}
	sink.Write(append(line, '\n'))
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	emit(levelInfo, msg, nil, fields)
}

// Warn logs a warning message with optional fields.
func Warn(msg string, fields Fields) {
	emit(levelWarn, msg, nil, fields)
}

// Error logs an error message; a non-nil err lands in the "error" key.
func Error(msg string, err error, fields Fields) {
	emit(levelError, msg, err, fields)
}

// Fatal logs at fatal level and exits the process.
func Fatal(msg string, err error, fields Fields) {
	emit(levelFatal, msg, err, fields)
	exit(1)
}
