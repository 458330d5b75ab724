package events

// Event type constants for kelindar/event.
const (
	TypeLiveLog uint32 = iota + 1
	TypeNotification
	TypeServiceStatus
	TypeGeoDataUpdated
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// LiveLogEvent carries one poll tick's replacement content for a live log pane.
type LiveLogEvent struct {
	Seq       uint64 `json:"seq" example:"42" doc:"Monotonic tick number; lower values are stale"`
	Name      string `json:"name" example:"sing-box" doc:"Log pane name"`
	Content   string `json:"content" doc:"Full pane content replacing any previous content"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Tick timestamp"`
}

// Type returns the event type identifier for LiveLogEvent.
func (e LiveLogEvent) Type() uint32 { return TypeLiveLog }

// NotificationEvent is a transient user notification (toast).
type NotificationEvent struct {
	Message   string `json:"message" example:"Unknown error: exit status 127" doc:"Notification text"`
	Source    string `json:"source" example:"geodata" doc:"Component that raised the notification"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for NotificationEvent.
func (e NotificationEvent) Type() uint32 { return TypeNotification }

// ServiceStatusEvent is published after every status load.
type ServiceStatusEvent struct {
	SingBoxRunning bool   `json:"sing_box_running" doc:"Whether the sing-box instance is running"`
	V2rayRunning   bool   `json:"v2ray_running" doc:"Whether the v2ray instance is running"`
	Timestamp      string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ServiceStatusEvent.
func (e ServiceStatusEvent) Type() uint32 { return TypeServiceStatus }

// GeoDataUpdatedEvent is published after every update_version run.
type GeoDataUpdatedEvent struct {
	Result      string `json:"result" example:"success" doc:"Update result"`
	Description string `json:"description" example:"Successfully updated" doc:"Human readable outcome"`
	Timestamp   string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for GeoDataUpdatedEvent.
func (e GeoDataUpdatedEvent) Type() uint32 { return TypeGeoDataUpdated }
