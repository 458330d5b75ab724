package cmd

import (
	"context"
	"fmt"

	"github.com/smazurov/homeproxy-status/internal/command"
	"github.com/smazurov/homeproxy-status/internal/geodata"
	"github.com/smazurov/homeproxy-status/internal/logging"
	"github.com/smazurov/homeproxy-status/internal/status"
	"github.com/smazurov/homeproxy-status/internal/systemd"
	"github.com/smazurov/homeproxy-status/internal/ubus"
)

// Status backends.
const (
	BackendUbus    = "ubus"
	BackendSystemd = "systemd"
)

// Backend bundles the service status checker and GeoData updater.
type Backend struct {
	Checker *status.Checker
	GeoData *geodata.Updater
	close   func()
}

// Close releases the status backend's connection, if any.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// NewBackend builds the status checker for opts.StatusBackend and the
// GeoData updater.
func NewBackend(ctx context.Context, opts *Options) (*Backend, error) {
	runner := command.NewExecRunner()
	b := &Backend{
		GeoData: geodata.NewUpdater(opts.GeoUpdaterScript, runner, logging.GetLogger("geodata")),
	}

	var lister status.Lister
	switch opts.StatusBackend {
	case BackendUbus, "":
		lister = ubus.NewClient(opts.UbusBinary, runner)
	case BackendSystemd:
		mgr, err := systemd.NewManager(ctx, opts.SystemdUnitPattern,
			[]string{status.InstanceSingBox, status.InstanceV2ray})
		if err != nil {
			return nil, err
		}
		lister = mgr
		b.close = mgr.Close
	default:
		return nil, fmt.Errorf("unknown status backend %q", opts.StatusBackend)
	}

	b.Checker = status.NewChecker(lister, logging.GetLogger("status"))
	return b, nil
}
