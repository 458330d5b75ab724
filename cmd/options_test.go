package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/homeproxy-status/internal/view"
)

func TestPollIntervalDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"5s", 5 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"", 5 * time.Second},
		{"soon", 5 * time.Second},
		{"-1s", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			opts := &Options{PollInterval: tt.value}
			if got := opts.PollIntervalDuration(); got != tt.want {
				t.Errorf("PollIntervalDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	opts := &Options{LoggingLevel: "warn", LoggingFormat: "json", LoggingGeoData: "debug"}

	cfg := opts.LoggingConfig()
	if cfg.Level != "warn" || cfg.Format != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Modules["geodata"] != "debug" {
		t.Errorf("geodata level = %q", cfg.Modules["geodata"])
	}
}

func TestNewBackendUnknown(t *testing.T) {
	_, err := NewBackend(context.Background(), &Options{StatusBackend: "openrc"})
	if err == nil || !strings.Contains(err.Error(), "openrc") {
		t.Errorf("err = %v", err)
	}
}

func TestNewBackendUbus(t *testing.T) {
	b, err := NewBackend(context.Background(), &Options{StatusBackend: BackendUbus})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	defer b.Close()
	if b.Checker == nil || b.GeoData == nil {
		t.Errorf("backend = %+v", b)
	}
}

func TestPrintPage(t *testing.T) {
	page := view.Page{
		Section: "Service information",
		ServiceStatus: []view.InstanceStatus{
			{Label: "Sing-box", Running: true},
			{Label: "V2ray"},
		},
		GeoData:      view.VersionField{Failed: true},
		HomeProxyLog: view.LogPane{Title: "HomeProxy log", Content: "Log is clean."},
	}

	var buf bytes.Buffer
	if err := printPage(&buf, page, false); err != nil {
		t.Fatalf("printPage: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sing-box: RUNNING", "V2ray: NOT RUNNING", "GeoData version: unknown error", "Log is clean."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := printPage(&buf, page, true); err != nil {
		t.Fatalf("printPage json: %v", err)
	}
	if !strings.Contains(buf.String(), `"section": "Service information"`) {
		t.Errorf("json output = %s", buf.String())
	}
}
