package api

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/smazurov/homeproxy-status/internal/api/models"
	"github.com/smazurov/homeproxy-status/internal/events"
	"github.com/smazurov/homeproxy-status/internal/logging"
	"github.com/smazurov/homeproxy-status/internal/logview"
	"github.com/smazurov/homeproxy-status/internal/version"
	"github.com/smazurov/homeproxy-status/internal/view"
)

const authRealm = `Basic realm="HomeProxy"`

// Options configures the API server.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	View              *view.StatusView
	LiveLog           *logview.Tailer
	EventBus          *events.Bus
	PrometheusHandler http.Handler // Optional Prometheus metrics handler
}

// Server serves the status page and its JSON/SSE API.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	options    *Options
	view       *view.StatusView
	liveLog    *logview.Tailer
	eventBus   *events.Bus
	logger     *slog.Logger
}

// NewServer creates the server and registers all routes.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("HomeProxy Status API", "1.0.0")
	config.Info.Description = "Service state, GeoData and runtime logs of HomeProxy"
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	server := &Server{
		api:      api,
		mux:      mux,
		options:  opts,
		view:     opts.View,
		liveLog:  opts.LiveLog,
		eventBus: opts.EventBus,
		logger:   logging.GetLogger("api"),
	}

	api.UseMiddleware(HTTPLoggingMiddleware)
	if server.authEnabled() {
		api.UseMiddleware(server.basicAuthMiddleware)
	}

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()
	server.registerPageRoutes()

	return server
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// GetAPI returns the Huma API instance.
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start listens on addr and blocks until the server is closed.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting HomeProxy status server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down, waiting for in-flight requests up to ctx.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return s.httpServer.Close()
	}
	return nil
}

func (s *Server) authEnabled() bool {
	return s.options.AuthUsername != "" && s.options.AuthPassword != ""
}

// validCredentials checks a base64 "user:password" pair.
func (s *Server) validCredentials(encoded string) bool {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.options.AuthUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.options.AuthPassword)) == 1
	return userOK && passOK
}

// credentialsFrom extracts encoded credentials from the Authorization header,
// falling back to the auth query parameter used by EventSource clients.
func credentialsFrom(header, query string) string {
	const prefix = "Basic "
	if strings.HasPrefix(header, prefix) {
		return header[len(prefix):]
	}
	return query
}

func (s *Server) basicAuthMiddleware(ctx huma.Context, next func(huma.Context)) {
	op := ctx.Operation()
	if op != nil && len(op.Security) == 0 {
		next(ctx)
		return
	}

	if !s.validCredentials(credentialsFrom(ctx.Header("Authorization"), ctx.Query("auth"))) {
		ctx.SetHeader("WWW-Authenticate", authRealm)
		_ = huma.WriteErr(s.api, ctx, http.StatusUnauthorized, "Authentication required")
		return
	}
	next(ctx)
}

// requireAuth guards plain HTTP handlers with the same credentials.
func (s *Server) requireAuth(h http.HandlerFunc) http.HandlerFunc {
	if !s.authEnabled() {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.validCredentials(credentialsFrom(r.Header.Get("Authorization"), r.URL.Query().Get("auth"))) {
			w.Header().Set("WWW-Authenticate", authRealm)
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		h(w, r)
	}
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		info := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   info.Version,
				GitCommit: info.GitCommit,
				BuildDate: info.BuildDate,
				BuildID:   info.BuildID,
				GoVersion: info.GoVersion,
				Compiler:  info.Compiler,
				Platform:  info.Platform,
			},
		}, nil
	})

	s.registerStatusRoutes()
	s.registerGeoDataRoutes()
	s.registerLogRoutes()
	s.registerNotificationRoutes()
}

// withAuth returns security requirement for basic auth.
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}
