// Package status answers whether HomeProxy backend instances are running.
package status

import (
	"context"
	"log/slog"
)

// Service and instance names tracked by the router's service manager.
const (
	ServiceName     = "homeproxy"
	InstanceSingBox = "sing-box"
	InstanceV2ray   = "v2ray"
)

// Lister performs the service list query: for a service name it returns a
// document shaped {service: {instances: {instance: {running: bool}}}}.
type Lister interface {
	ServiceList(ctx context.Context, name string) (map[string]any, error)
}

// Snapshot holds the running flags gathered for one page load.
type Snapshot struct {
	SingBoxRunning bool `json:"sing_box_running" doc:"Whether the sing-box instance is running"`
	V2rayRunning   bool `json:"v2ray_running" doc:"Whether the v2ray instance is running"`
}

// InstanceRunning walks resp[service]["instances"][instance]["running"].
// Any missing key or unexpected type yields false.
func InstanceRunning(resp map[string]any, service, instance string) bool {
	svc, ok := resp[service].(map[string]any)
	if !ok {
		return false
	}
	instances, ok := svc["instances"].(map[string]any)
	if !ok {
		return false
	}
	inst, ok := instances[instance].(map[string]any)
	if !ok {
		return false
	}
	running, _ := inst["running"].(bool)
	return running
}

// Checker resolves running flags for instances of one service.
type Checker struct {
	lister  Lister
	service string
	logger  *slog.Logger
}

// NewChecker creates a Checker for the homeproxy service.
func NewChecker(lister Lister, logger *slog.Logger) *Checker {
	return &Checker{lister: lister, service: ServiceName, logger: logger}
}

// Running reports whether instance is running. Query failures are logged
// and resolve to false.
func (c *Checker) Running(ctx context.Context, instance string) bool {
	resp, err := c.lister.ServiceList(ctx, c.service)
	if err != nil {
		c.logger.Warn("Service list query failed", "service", c.service, "instance", instance, "error", err)
		return false
	}
	return InstanceRunning(resp, c.service, instance)
}
