// Package logging provides structured logging with per-module log levels.
//
// Records are routed to stdout (text or JSON) when it is attached, to the
// systemd journal when journald is reachable, and always to an in-memory ring
// buffer that backs the /api/logs/daemon endpoint.
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"logview": "debug",
//		},
//	})
//
// and get a logger per module:
//
//	logger := logging.GetLogger("geodata")
//	logger.Warn("get_version failed", "error", err)
//
// Journal entries carry SYSLOG_IDENTIFIER=homeproxy-status:
//
//	journalctl -t homeproxy-status MODULE=logview
package logging
