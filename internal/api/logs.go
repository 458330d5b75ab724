package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/homeproxy-status/internal/api/models"
	"github.com/smazurov/homeproxy-status/internal/events"
	"github.com/smazurov/homeproxy-status/internal/logging"
	"github.com/smazurov/homeproxy-status/internal/logview"
)

// registerLogRoutes registers the live sing-box log endpoints and the
// daemon's own log buffer.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-sing-box-log",
		Method:      http.MethodGet,
		Path:        "/api/logs/sing-box",
		Summary:     "Sing-box Log",
		Description: "Latest applied poll tick of the sing-box log. Set refresh=true to read the file now.",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, input *struct {
		Refresh bool `query:"refresh" doc:"Read the log file before responding"`
	}) (*models.LiveLogResponse, error) {
		if input.Refresh {
			return &models.LiveLogResponse{Body: s.liveLog.Refresh()}, nil
		}
		return &models.LiveLogResponse{Body: s.liveLog.Snapshot()}, nil
	})

	sse.Register(s.api, huma.Operation{
		OperationID: "sing-box-log-stream",
		Method:      http.MethodGet,
		Path:        "/api/logs/sing-box/stream",
		Summary:     "Sing-box Log Stream",
		Description: "Each poll tick's full replacement content via Server-Sent Events, starting with the current snapshot.",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"message": events.LiveLogEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 8)
		unsubscribe := events.SubscribeToChannel[events.LiveLogEvent](s.eventBus, eventCh)
		defer unsubscribe()

		var lastSeq uint64
		if snap := s.liveLog.Snapshot(); snap.Seq > 0 {
			lastSeq = snap.Seq
			if err := send.Data(events.LiveLogEvent{
				Seq:       snap.Seq,
				Name:      logview.SingBoxLog,
				Content:   snap.Content,
				Timestamp: snap.UpdatedAt.Format(time.RFC3339),
			}); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				tick, ok := ev.(events.LiveLogEvent)
				if !ok || tick.Seq <= lastSeq {
					continue
				}
				lastSeq = tick.Seq
				if err := send.Data(tick); err != nil {
					return
				}
			}
		}
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-daemon-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs/daemon",
		Summary:     "Daemon Logs",
		Description: "Recent log entries of this status daemon",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.DaemonLogsResponse, error) {
		resp := &models.DaemonLogsResponse{}
		resp.Body.Entries = logging.GetBuffer().ReadAll()
		if resp.Body.Entries == nil {
			resp.Body.Entries = []logging.LogEntry{}
		}
		return resp, nil
	})
}
