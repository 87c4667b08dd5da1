package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug": log.DebugLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
		"info":  log.InfoLevel,
		"":      log.InfoLevel,
		"loud":  log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerWithWriter(t *testing.T) {
	t.Setenv("COSDIS_LOG_LEVEL", "warn")
	t.Setenv("COSDIS_LOG_PREFIX", "test")

	var buf bytes.Buffer
	lg := NewLoggerWithWriter(&buf)
	defer lg.Close()

	lg.Info("hidden")
	lg.Warn("shown", "addr", "8000")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "test") || !strings.Contains(out, "8000") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestIsDebug(t *testing.T) {
	t.Setenv("COSDIS_LOG_LEVEL", "debug")
	if !IsDebug() {
		t.Error("IsDebug() = false with COSDIS_LOG_LEVEL=debug")
	}
}
