// Package cmd holds the CLI options shared by the server and its
// subcommands, and the subcommands themselves.
package cmd

import (
	"time"

	"github.com/smazurov/homeproxy-status/internal/logging"
	"github.com/smazurov/homeproxy-status/internal/logview"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file (TOML, or YAML by extension)" short:"c" default:"/etc/homeproxy/status.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8091" toml:"server.port" env:"SERVER_PORT"`

	// HomeProxy settings
	RunDir           string `help:"HomeProxy runtime directory holding the logs" default:"/var/run/homeproxy" toml:"homeproxy.run_dir" env:"RUN_DIR"`
	GeoUpdaterScript string `help:"GeoData updater script" default:"/etc/homeproxy/scripts/update_geodata.sh" toml:"homeproxy.geoupdater" env:"GEOUPDATER"`
	PollInterval     string `help:"Live sing-box log poll interval" default:"5s" toml:"homeproxy.poll_interval" env:"POLL_INTERVAL"`

	// Status backend settings
	StatusBackend      string `help:"Service status backend (ubus, systemd)" default:"ubus" toml:"status.backend" env:"STATUS_BACKEND"`
	UbusBinary         string `help:"ubus binary" default:"ubus" toml:"status.ubus_binary" env:"UBUS_BINARY"`
	SystemdUnitPattern string `help:"systemd unit name pattern, %s is the instance" default:"homeproxy-%s.service" toml:"status.systemd_unit_pattern" env:"SYSTEMD_UNIT_PATTERN"`

	// Auth settings
	AuthUsername string `help:"Basic auth username, empty disables auth" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Metrics settings
	MetricsEnabled bool `help:"Serve Prometheus metrics on /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingView    string `help:"Status view logging level" default:"info" toml:"logging.view" env:"LOGGING_VIEW"`
	LoggingLogview string `help:"Live log polling logging level" default:"info" toml:"logging.logview" env:"LOGGING_LOGVIEW"`
	LoggingStatus  string `help:"Status backend logging level" default:"info" toml:"logging.status" env:"LOGGING_STATUS"`
	LoggingGeoData string `help:"GeoData updater logging level" default:"info" toml:"logging.geodata" env:"LOGGING_GEODATA"`
}

// LoggingConfig maps the flat logging options to a logging.Config.
func (o *Options) LoggingConfig() logging.Config {
	return logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"api":     o.LoggingAPI,
			"http":    o.LoggingHTTP,
			"view":    o.LoggingView,
			"logview": o.LoggingLogview,
			"status":  o.LoggingStatus,
			"geodata": o.LoggingGeoData,
		},
	}
}

// PollIntervalDuration parses PollInterval, falling back to the default on
// bad or non-positive values.
func (o *Options) PollIntervalDuration() time.Duration {
	d, err := time.ParseDuration(o.PollInterval)
	if err != nil || d <= 0 {
		return logview.DefaultPollInterval
	}
	return d
}
