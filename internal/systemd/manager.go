// Package systemd reports HomeProxy instance state from systemd units on
// hosts where the backends run under systemd instead of procd.
package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// DefaultUnitPattern maps an instance name to its unit, e.g. homeproxy-sing-box.service.
const DefaultUnitPattern = "homeproxy-%s.service"

// unitConn is the subset of *dbus.Conn the manager needs.
type unitConn interface {
	GetUnitPropertyContext(ctx context.Context, unit string, propertyName string) (*dbus.Property, error)
	Close()
}

// Manager reads unit state over D-Bus.
type Manager struct {
	conn        unitConn
	unitPattern string
	instances   []string
}

// NewManager connects to the system bus. instances lists the instance names
// reported by ServiceList.
func NewManager(ctx context.Context, unitPattern string, instances []string) (*Manager, error) {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, err
	}
	return newManager(conn, unitPattern, instances), nil
}

func newManager(conn unitConn, unitPattern string, instances []string) *Manager {
	if unitPattern == "" {
		unitPattern = DefaultUnitPattern
	}
	return &Manager{conn: conn, unitPattern: unitPattern, instances: instances}
}

// GetServiceStatus retrieves the ActiveState property of a unit.
func (m *Manager) GetServiceStatus(ctx context.Context, unit string) (string, error) {
	prop, err := m.conn.GetUnitPropertyContext(ctx, unit, "ActiveState")
	if err != nil {
		return "", err
	}
	state, ok := prop.Value.Value().(string)
	if !ok {
		return "", fmt.Errorf("unexpected ActiveState type %T for %s", prop.Value.Value(), unit)
	}
	return state, nil
}

// ServiceList implements status.Lister. Each configured instance is mapped
// to its unit and reported as running when the unit is active. An instance
// whose unit cannot be queried is omitted.
func (m *Manager) ServiceList(ctx context.Context, name string) (map[string]any, error) {
	instances := make(map[string]any, len(m.instances))
	for _, instance := range m.instances {
		state, err := m.GetServiceStatus(ctx, fmt.Sprintf(m.unitPattern, instance))
		if err != nil {
			continue
		}
		instances[instance] = map[string]any{"running": state == "active"}
	}
	return map[string]any{
		name: map[string]any{"instances": instances},
	}, nil
}

// Close cleanly closes the D-Bus connection.
func (m *Manager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}
