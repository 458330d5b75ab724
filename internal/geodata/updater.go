// Package geodata drives the GeoData updater script: it reads the installed
// data version and triggers updates.
package geodata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/smazurov/homeproxy-status/internal/command"
)

// DefaultScript is the updater shipped with HomeProxy.
const DefaultScript = "/etc/homeproxy/scripts/update_geodata.sh"

// Script subcommands.
const (
	cmdGetVersion    = "get_version"
	cmdUpdateVersion = "update_version"
)

// Updater runs the GeoData updater script.
type Updater struct {
	script string
	runner command.Runner
	logger *slog.Logger
}

// NewUpdater creates an Updater. An empty script selects DefaultScript.
func NewUpdater(script string, runner command.Runner, logger *slog.Logger) *Updater {
	if script == "" {
		script = DefaultScript
	}
	return &Updater{script: script, runner: runner, logger: logger}
}

// Version runs get_version and returns its trimmed output. Empty output is
// an ErrCodeEmptyOutput error whose Detail is the raw command result.
func (u *Updater) Version(ctx context.Context) (string, error) {
	res, err := u.runner.Run(ctx, u.script, cmdGetVersion)
	if err != nil {
		u.logger.Warn("GeoData get_version failed", "script", u.script, "error", err)
		return "", newError(ErrCodeExecFailed, err.Error(), err)
	}

	version := strings.TrimSpace(res.Stdout)
	if version == "" {
		detail := fmt.Sprintf("{code: %d, stdout: %q}", res.Code, res.Stdout)
		u.logger.Warn("GeoData get_version returned no output", "code", res.Code, "stderr", strings.TrimSpace(res.Stderr))
		return "", newError(ErrCodeEmptyOutput, detail, nil)
	}
	return version, nil
}

// Update runs update_version and decodes its exit code. The error is set
// only when the script could not be run.
func (u *Updater) Update(ctx context.Context) (UpdateResult, error) {
	res, err := u.runner.Run(ctx, u.script, cmdUpdateVersion)
	if err != nil {
		u.logger.Warn("GeoData update_version failed", "script", u.script, "error", err)
		return ResultFailed, newError(ErrCodeExecFailed, err.Error(), err)
	}

	result := ResultFromCode(res.Code)
	u.logger.Info("GeoData update finished", "code", res.Code, "result", result.String())
	return result, nil
}
