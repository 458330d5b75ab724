package models

import (
	"github.com/smazurov/homeproxy-status/internal/logging"
	"github.com/smazurov/homeproxy-status/internal/logview"
	"github.com/smazurov/homeproxy-status/internal/view"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// VersionData describes this binary's build.
type VersionData struct {
	Version   string `json:"version" example:"1.0.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2026-01-15T10:30:00Z" doc:"Build timestamp"`
	BuildID   string `json:"build_id" doc:"Build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Go compiler"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"OS/architecture"`
}

type VersionResponse struct {
	Body VersionData
}

// StatusResponse carries the data gathered before the first render.
type StatusResponse struct {
	Body view.Data
}

// PageResponse carries the rendered page tree.
type PageResponse struct {
	Body view.Page
}

// GeoDataVersionData is the GeoData version field.
type GeoDataVersionData struct {
	Version string `json:"version,omitempty" example:"202601150042" doc:"Installed GeoData version"`
	Failed  bool   `json:"failed" doc:"Whether the version could not be read"`
	Display string `json:"display" example:"202601150042" doc:"Text shown in the field"`
	Notice  string `json:"notice,omitempty" doc:"Notification raised by a failed lookup"`
}

type GeoDataVersionResponse struct {
	Body GeoDataVersionData
}

type GeoDataUpdateResponse struct {
	Body view.UpdateOutcome
}

type LiveLogResponse struct {
	Body logview.LiveSnapshot
}

type DaemonLogsResponse struct {
	Body struct {
		Entries []logging.LogEntry `json:"entries" doc:"Recent log entries of this daemon, oldest first"`
	}
}
