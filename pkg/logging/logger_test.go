package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestResolveLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	tests := []struct {
		configured string
		debug      bool
		want       string
	}{
		{"", false, DefaultLevel},
		{"info", false, "info"},
		{"info", true, "debug"},
		{"OFF", false, "OFF"},
	}
	for _, tt := range tests {
		got, err := ResolveLevel(tt.configured, tt.debug)
		if err != nil || got != tt.want {
			t.Fatalf("ResolveLevel(%q, %v) = %q, %v; want %q", tt.configured, tt.debug, got, err, tt.want)
		}
	}

	t.Setenv(EnvLogLevel, "trace")
	if got, err := ResolveLevel("info", false); err != nil || got != "trace" {
		t.Fatalf("expected environment to override config, got %q, %v", got, err)
	}
}

func TestResolveLevelRejectsUnknown(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	if _, err := ResolveLevel("bogus", false); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}

	t.Setenv(EnvLogLevel, "loud")
	if _, err := ResolveLevel("info", false); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel from environment, got %v", err)
	}
}

func TestNewLoggerWritesNamedLines(t *testing.T) {
	t.Setenv(EnvJSONLog, "")
	var buf bytes.Buffer
	logger := NewLogger("lwsrecipe", "info", &buf)
	logger.Debug("hidden")
	logger.Info("resolved", "dependencies", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, "lwsrecipe: resolved") || !strings.Contains(out, "dependencies=2") {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestOrNull(t *testing.T) {
	if OrNull(nil) == nil {
		t.Fatalf("expected a usable logger")
	}
}
