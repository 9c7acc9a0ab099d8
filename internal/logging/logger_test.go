package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func captureLine(t *testing.T, log func()) map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	log()

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("nothing logged")
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("not a JSON line: %q (%v)", line, err)
	}
	return entry
}

func TestInfoCarriesFields(t *testing.T) {
	entry := captureLine(t, func() {
		Info("session created", Fields{"session_id": "ab12cd34"})
	})
	if entry["level"] != "info" || entry["msg"] != "session created" {
		t.Fatalf("entry = %v", entry)
	}
	if entry["session_id"] != "ab12cd34" {
		t.Fatalf("session_id = %v", entry["session_id"])
	}
	if entry["ts"] == "" {
		t.Fatal("missing timestamp")
	}
}

func TestErrorIncludesErrorText(t *testing.T) {
	entry := captureLine(t, func() {
		Error("lookup failed", errors.New("no such record"), nil)
	})
	if entry["level"] != "error" {
		t.Fatalf("level = %v", entry["level"])
	}
	if entry["error"] != "no such record" {
		t.Fatalf("error = %v", entry["error"])
	}
}

func TestReservedKeysWinOverFields(t *testing.T) {
	entry := captureLine(t, func() {
		Warn("shadowed", Fields{"level": "nope", "msg": "nope"})
	})
	if entry["level"] != "warn" || entry["msg"] != "shadowed" {
		t.Fatalf("entry = %v", entry)
	}
}
