package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":  slog.LevelDebug,
		" INFO ": slog.LevelInfo,
		"warn":   slog.LevelWarn,
		"error":  slog.LevelError,
		"bogus":  slog.LevelWarn,
		"":       slog.LevelWarn,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerWritesFieldsAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", false)

	log.Debug("hidden", nil)
	log.Info("assistant finished", map[string]interface{}{"status": "success"})
	log.Error("speak failed", errors.New("boom"), nil)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %s", out)
	}
	if !strings.Contains(out, "assistant finished") || !strings.Contains(out, "status=success") {
		t.Fatalf("missing info line: %s", out)
	}
	if !strings.Contains(out, "boom") {
		t.Fatalf("missing error value: %s", out)
	}
}

func TestVerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "error", true).Debug("forced debug", nil)
	if !strings.Contains(buf.String(), "forced debug") {
		t.Fatalf("verbose logger dropped debug line: %q", buf.String())
	}
}
