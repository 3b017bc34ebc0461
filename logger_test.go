package garden

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestResolveLogLevel(t *testing.T) {
	for level, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ResolveLogLevel(level)
		if err != nil || got != want {
			t.Errorf("ResolveLogLevel(%q) = %v, %v", level, got, err)
		}
	}
	if _, err := ResolveLogLevel("loud"); err == nil {
		t.Error("accepted an invalid level")
	}
}

func TestCompileLogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	Compile("1 bogus", 48000, nil, logger)
	if !strings.Contains(buf.String(), "unknown word: bogus") {
		t.Errorf("log output %q", buf.String())
	}
}
