package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{" info ", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, c := range cases {
		if got := ParseLevel(c.input); got != c.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestLoggerFallbackBeforeInit(t *testing.T) {
	if Logger() == nil {
		t.Fatal("Logger must never return nil")
	}
}

func TestInitLogger(t *testing.T) {
	InitLogger(t.TempDir(), "debug", 1, 0)
	defer Shutdown()

	logger := Logger()
	if logger == nil {
		t.Fatal("expected initialized logger")
	}

	// Must not panic writing through the rotating file handler.
	logger.Debug("test entry", "key", "value")
}
