package logging

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/Chong-source/ZurichWoof-Dog-Recommendation/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{" Error ", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		if got := parseLevel(tc.input); got != tc.want {
			t.Fatalf("parseLevel(%q) = %s, expected %s", tc.input, got, tc.want)
		}
	}
}

func TestNew_AppliesConfiguredLevel(t *testing.T) {
	logger := New(config.LoggingConfig{Level: "error", Format: "json"})
	if logger.GetLevel() != zerolog.ErrorLevel {
		t.Fatalf("expected error level, got %s", logger.GetLevel())
	}

	logger = New(config.LoggingConfig{Level: "nonsense", Format: "text"})
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level for unknown input, got %s", logger.GetLevel())
	}
}
