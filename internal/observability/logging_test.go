package observability

import (
	"testing"

	"go.uber.org/zap"

	"github.com/wmachadoc/Abertura-de-tickets/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		name  string
		level string
		want  bool // debug enabled
	}{
		{"debug", "debug", true},
		{"info", "info", false},
		{"garbage falls back to info", "loud", false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(config.LoggerConfig{Level: tt.level})
			if err != nil {
				t.Fatalf("NewLogger: %v", err)
			}
			if got := logger.Core().Enabled(zap.DebugLevel); got != tt.want {
				t.Fatalf("debug enabled = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "info", Format: "console"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("format check")
}
