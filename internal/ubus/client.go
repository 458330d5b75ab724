// Package ubus queries OpenWrt's procd through the ubus CLI.
package ubus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smazurov/homeproxy-status/internal/command"
)

const defaultBinary = "ubus"

// Client calls ubus objects via the ubus command line tool.
type Client struct {
	binary string
	runner command.Runner
}

// NewClient creates a Client. An empty binary selects "ubus" from PATH.
func NewClient(binary string, runner command.Runner) *Client {
	if binary == "" {
		binary = defaultBinary
	}
	return &Client{binary: binary, runner: runner}
}

// Call invokes object.method with params and decodes the JSON reply.
// An empty reply decodes to an empty map.
func (c *Client) Call(ctx context.Context, object, method string, params any) (map[string]any, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode %s.%s params: %w", object, method, err)
	}

	res, err := c.runner.Run(ctx, c.binary, "call", object, method, string(payload))
	if err != nil {
		return nil, fmt.Errorf("ubus call %s %s: %w", object, method, err)
	}
	if res.Code != 0 {
		return nil, fmt.Errorf("ubus call %s %s: exit code %d: %s", object, method, res.Code, strings.TrimSpace(res.Stderr))
	}

	out := strings.TrimSpace(res.Stdout)
	reply := make(map[string]any)
	if out == "" {
		return reply, nil
	}
	if err := json.Unmarshal([]byte(out), &reply); err != nil {
		return nil, fmt.Errorf("decode ubus reply: %w", err)
	}
	return reply, nil
}

// ServiceList implements status.Lister using `service list {"name": name}`.
func (c *Client) ServiceList(ctx context.Context, name string) (map[string]any, error) {
	return c.Call(ctx, "service", "list", map[string]string{"name": name})
}
