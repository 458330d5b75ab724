package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/homeproxy-status/internal/api/models"
	"github.com/smazurov/homeproxy-status/ui"
)

func (s *Server) registerStatusRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Service Status",
		Description: "Running state of the sing-box and v2ray instances plus the HomeProxy log",
		Tags:        []string{"status"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, _ *struct{}) (*models.StatusResponse, error) {
		return &models.StatusResponse{Body: s.view.Load(ctx)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-page",
		Method:      http.MethodGet,
		Path:        "/api/page",
		Summary:     "Status Page Tree",
		Description: "The full status page as structured data, including the GeoData version",
		Tags:        []string{"status"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(ctx context.Context, input *struct {
		Update string `query:"update" doc:"ID of the update outcome to show"`
	}) (*models.PageResponse, error) {
		slot := s.view.FetchVersion(ctx)
		data := s.view.Load(ctx)
		page := s.view.Render(data, slot.Wait(ctx), s.view.UpdateResult(input.Update))
		return &models.PageResponse{Body: page}, nil
	})
}

func (s *Server) registerPageRoutes() {
	s.mux.Handle("GET /static/", ui.StaticHandler())
	s.mux.HandleFunc("GET /{$}", s.requireAuth(s.handlePage))
}

// handlePage renders the HTML status page. The version lookup runs
// alongside Load rather than after it. ?update=<id> shows the outcome of the
// update that triggered this render.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slot := s.view.FetchVersion(ctx)
	data := s.view.Load(ctx)
	page := s.view.Render(data, slot.Wait(ctx), s.view.UpdateResult(r.URL.Query().Get("update")))

	var buf bytes.Buffer
	if err := ui.RenderStatus(&buf, page); err != nil {
		s.logger.Error("Failed to render status page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
