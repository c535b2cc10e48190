package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/wonny/ignition/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewAndChaining(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "json",
	}

	log := New(cfg)
	if log == nil {
		t.Fatal("New() returned nil")
	}

	// Chained loggers must be independent instances
	child := log.WithField("ticker", "AAPL")
	if child == log {
		t.Error("WithField() should return a new logger")
	}

	fields := log.WithFields(map[string]interface{}{
		"chunk":  3,
		"cursor": 1500,
	})
	if fields == nil {
		t.Fatal("WithFields() returned nil")
	}

	// Must not panic
	fields.Debug("test message")
	child.Infof("staged %d rows", 500)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	// Must not panic or write anywhere
	log.Info("dropped")
	log.WithError(nil).Warn("dropped")
}
