package view

import (
	"fmt"
	"html/template"
	"strings"
)

// Field names of the service information section.
const (
	FieldServiceStatus  = "_service_status"
	FieldGeoDataVersion = "_geodata_version"
	FieldUpdateGeoData  = "_update_geodata"
	FieldHomeProxyLog   = "_homeproxy_logview"
	FieldSingBoxLog     = "_sing-box_logview"
)

// Display strings.
const (
	textRunning        = "RUNNING"
	textNotRunning     = "NOT RUNNING"
	textUnknownError   = "unknown error"
	textCollectingData = "Collecting data..."
	textLoading        = "Loading"
)

// Capabilities lists the generic form actions the page offers. The status
// page is informational, so all of them are off.
type Capabilities struct {
	Save  bool `json:"save"`
	Apply bool `json:"apply"`
	Reset bool `json:"reset"`
}

// ReadOnly is the capability set of a page without save, apply or reset.
func ReadOnly() Capabilities {
	return Capabilities{}
}

// InstanceStatus is one line of the service status field.
type InstanceStatus struct {
	Label   string `json:"label"`
	Running bool   `json:"running"`
}

// Color is the emphasis color for the line.
func (s InstanceStatus) Color() string {
	if s.Running {
		return "green"
	}
	return "red"
}

// State is the RUNNING / NOT RUNNING text.
func (s InstanceStatus) State() string {
	if s.Running {
		return textRunning
	}
	return textNotRunning
}

// VersionField is the resolved GeoData version field.
type VersionField struct {
	Version string `json:"version,omitempty"`
	Failed  bool   `json:"failed"`

	// Notice is the notification raised by a failed lookup.
	Notice string `json:"notice,omitempty"`
}

// Text is what the field displays.
func (f VersionField) Text() string {
	if f.Failed {
		return textUnknownError
	}
	return f.Version
}

// Button is the update action.
type Button struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Action      string `json:"action"`

	// OutcomeID identifies the update outcome being shown, if any.
	OutcomeID string `json:"outcome_id,omitempty"`
}

// LogPane is a preformatted log block.
type LogPane struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// LivePane is a log block filled in by poll ticks after render.
type LivePane struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Placeholder string `json:"placeholder"`
	LoadingAlt  string `json:"loading_alt"`
	RefreshNote string `json:"refresh_note"`
	Stream      string `json:"stream"`
}

// Page is the rendered status page tree.
type Page struct {
	Section       string           `json:"section"`
	ServiceStatus []InstanceStatus `json:"service_status"`
	GeoData       VersionField     `json:"geodata_version"`
	Update        Button           `json:"update"`
	HomeProxyLog  LogPane          `json:"homeproxy_log"`
	SingBoxLog    LivePane         `json:"sing_box_log"`
	Capabilities  Capabilities     `json:"capabilities"`
	Notifications []string         `json:"notifications,omitempty"`
}

// ServiceStatusHTML formats the status lines as colored strong elements
// joined by line breaks.
func (p Page) ServiceStatusHTML() template.HTML {
	lines := make([]string, 0, len(p.ServiceStatus))
	for _, s := range p.ServiceStatus {
		lines = append(lines, fmt.Sprintf(`<strong style="color:%s">%s: %s</strong>`,
			s.Color(), template.HTMLEscapeString(s.Label), s.State()))
	}
	return template.HTML(strings.Join(lines, "<br/>"))
}
