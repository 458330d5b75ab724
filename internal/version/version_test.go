package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestApplyBuildSettings(t *testing.T) {
	tests := []struct {
		name       string
		info       Info
		wantCommit string
		wantDate   string
	}{
		{
			name:       "fills unknown fields",
			info:       Info{GitCommit: "unknown", BuildDate: "unknown"},
			wantCommit: "0123456789abcdef",
			wantDate:   "2026-01-15T10:30:00Z",
		},
		{
			name:       "keeps link-time values",
			info:       Info{GitCommit: "abc1234", BuildDate: "2025-12-01"},
			wantCommit: "abc1234",
			wantDate:   "2025-12-01",
		},
	}

	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2026-01-15T10:30:00Z"},
		{Key: "GOOS", Value: "linux"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.info
			applyBuildSettings(&info, settings)
			if info.GitCommit != tt.wantCommit {
				t.Errorf("GitCommit = %q, want %q", info.GitCommit, tt.wantCommit)
			}
			if info.BuildDate != tt.wantDate {
				t.Errorf("BuildDate = %q, want %q", info.BuildDate, tt.wantDate)
			}
		})
	}
}

func TestShort(t *testing.T) {
	if got := Short(); !strings.HasPrefix(got, Version+" (") {
		t.Errorf("Short() = %q", got)
	}
}

func TestGetPlatform(t *testing.T) {
	if info := Get(); !strings.Contains(info.Platform, "/") || info.GoVersion == "" {
		t.Errorf("Get() = %+v", info)
	}
}
