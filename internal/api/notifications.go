package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/homeproxy-status/internal/events"
)

// registerNotificationRoutes registers the transient notification stream.
func (s *Server) registerNotificationRoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "notifications-stream",
		Method:      http.MethodGet,
		Path:        "/api/notifications/stream",
		Summary:     "Notification Stream",
		Description: "Transient user notifications raised by failed GeoData commands",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"message":         events.NotificationEvent{},
		"geodata-updated": events.GeoDataUpdatedEvent{},
		"service-status":  events.ServiceStatusEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.NotificationEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.GeoDataUpdatedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ServiceStatusEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}
