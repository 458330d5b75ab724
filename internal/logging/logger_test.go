package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func resetLoggers() {
	mutex.Lock()
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	isInitialized = false
	globalConfig = Config{}
	mutex.Unlock()
}

func TestModuleLevelOverride(t *testing.T) {
	resetLoggers()

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"logview": "debug",
			"api":     "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"logview", true, true, true},
		{"api", false, false, true},
		{"view", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()
			ctx := context.Background()

			if got := handler.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := handler.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("Info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := handler.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("Warn enabled = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestLoggerCreatedBeforeInitializeIsUpdated(t *testing.T) {
	resetLoggers()

	early := GetLogger("geodata")
	if early.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected default info level before Initialize")
	}

	Initialize(Config{Level: "debug", Format: "json"})

	if !GetLogger("geodata").Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug level after Initialize")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]*slog.Level{
		"debug":   ptr(slog.LevelDebug),
		"INFO":    ptr(slog.LevelInfo),
		"warning": ptr(slog.LevelWarn),
		"error":   ptr(slog.LevelError),
		"loud":    nil,
	}
	for in, want := range tests {
		got := parseLevel(in)
		if (got == nil) != (want == nil) {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
			continue
		}
		if got != nil && *got != *want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, *got, *want)
		}
	}
}

func TestRingBufferWrapsInOrder(t *testing.T) {
	rb := NewRingBuffer(3)
	for _, msg := range []string{"a", "b", "c", "d"} {
		rb.Write(LogEntry{Message: msg})
	}

	entries := rb.ReadAll()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []string{"b", "c", "d"} {
		if entries[i].Message != want {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Message, want)
		}
	}
}

func TestBufferHandlerCapturesModuleAndAttrs(t *testing.T) {
	rb := NewRingBuffer(10)
	logger := slog.New(NewBufferHandler(rb, slog.LevelInfo)).With("module", "view")

	logger.Debug("dropped")
	logger.Warn("read failed", "path", "/var/run/homeproxy/homeproxy.log", "error", errors.New("boom"))

	entries := rb.ReadAll()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Module != "view" || e.Level != "warn" || e.Message != "read failed" {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.Attributes["error"] != "boom" {
		t.Errorf("error attr = %v, want boom", e.Attributes["error"])
	}
	if e.Timestamp.After(time.Now()) {
		t.Error("timestamp in the future")
	}
}

func ptr(l slog.Level) *slog.Level { return &l }
