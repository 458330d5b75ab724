package api

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"

	"github.com/smazurov/homeproxy-status/internal/events"
	"github.com/smazurov/homeproxy-status/internal/geodata"
	"github.com/smazurov/homeproxy-status/internal/logview"
	"github.com/smazurov/homeproxy-status/internal/view"
)

type mockChecker struct {
	running map[string]bool
}

func (m *mockChecker) Running(_ context.Context, instance string) bool {
	return m.running[instance]
}

type mockGeoData struct {
	version    string
	versionErr error
	result     geodata.UpdateResult
}

func (m *mockGeoData) Version(context.Context) (string, error) {
	return m.version, m.versionErr
}

func (m *mockGeoData) Update(context.Context) (geodata.UpdateResult, error) {
	return m.result, nil
}

type testEnv struct {
	server *Server
	bus    *events.Bus
	tailer *logview.Tailer
	logs   fstest.MapFS
}

func newTestEnv(t *testing.T, geo *mockGeoData) *testEnv {
	t.Helper()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := events.New()
	logs := fstest.MapFS{
		logview.HomeProxyLog: {Data: []byte("homeproxy started\n")},
		logview.SingBoxLog:   {Data: []byte("sing-box started\n")},
	}
	tailer := logview.NewTailer(logview.TailerOptions{
		FS:     logs,
		Name:   logview.SingBoxLog,
		Bus:    bus,
		Logger: quiet,
	})
	statusView := view.New(view.Options{
		Status:       &mockChecker{running: map[string]bool{"sing-box": true}},
		Logs:         logs,
		GeoData:      geo,
		Bus:          bus,
		Logger:       quiet,
		LiveStream:   "/api/logs/sing-box/stream",
		UpdateAction: "/api/geodata/update",
	})

	server := NewServer(&Options{
		AuthUsername: "admin",
		AuthPassword: "secret",
		View:         statusView,
		LiveLog:      tailer,
		EventBus:     bus,
	})
	return &testEnv{server: server, bus: bus, tailer: tailer, logs: logs}
}

func basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte("admin:secret"))
}

func (e *testEnv) do(t *testing.T, method, path string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authed {
		req.Header.Set("Authorization", "Basic "+basicAuth())
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{version: "20260101"})

	rec := env.do(t, http.MethodGet, "/api/health", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{version: "20260101"})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/status"},
		{http.MethodGet, "/api/geodata/version"},
		{http.MethodPost, "/api/geodata/update"},
		{http.MethodGet, "/api/logs/sing-box"},
		{http.MethodGet, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, false)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestGetStatus(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{version: "20260101"})

	rec := env.do(t, http.MethodGet, "/api/status", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body view.Data
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.SingBoxRunning || body.V2rayRunning {
		t.Errorf("running = %v/%v, want true/false", body.SingBoxRunning, body.V2rayRunning)
	}
	if body.HomeProxyLog != "homeproxy started" {
		t.Errorf("HomeProxyLog = %q", body.HomeProxyLog)
	}
}

func TestGeoDataVersion(t *testing.T) {
	tests := []struct {
		name        string
		geo         *mockGeoData
		wantFailed  bool
		wantDisplay string
	}{
		{"resolved", &mockGeoData{version: "20260101"}, false, "20260101"},
		{"failed", &mockGeoData{versionErr: errors.New("exit status 127")}, true, "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.geo)

			rec := env.do(t, http.MethodGet, "/api/geodata/version", true)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			var body struct {
				Failed  bool   `json:"failed"`
				Display string `json:"display"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Failed != tt.wantFailed || body.Display != tt.wantDisplay {
				t.Errorf("got failed=%v display=%q, want %v %q", body.Failed, body.Display, tt.wantFailed, tt.wantDisplay)
			}
		})
	}
}

func TestUpdateGeoDataThenRender(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{version: "20260101", result: geodata.ResultAlreadyUpdating})

	rec := env.do(t, http.MethodPost, "/api/geodata/update", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var outcome view.UpdateOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if outcome.Description != "Already in updating" || !outcome.Reset {
		t.Errorf("outcome = %+v", outcome)
	}

	page := env.do(t, http.MethodGet, "/?update="+outcome.ID, true)
	if page.Code != http.StatusOK {
		t.Fatalf("page status = %d, want 200", page.Code)
	}
	if !strings.Contains(page.Body.String(), "Already in updating") {
		t.Error("rendered page does not carry the update description")
	}

	fresh := env.do(t, http.MethodGet, "/", true)
	if strings.Contains(fresh.Body.String(), "Already in updating") {
		t.Error("page opened without the outcome ID shows the update description")
	}
}

func TestPageRendersHTML(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{version: "20260101"})

	rec := env.do(t, http.MethodGet, "/", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"Sing-box: RUNNING",
		"V2ray: NOT RUNNING",
		"20260101",
		"homeproxy started",
		"Collecting data...",
		"Refresh every 5 seconds.",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestGetSingBoxLog(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{})

	rec := env.do(t, http.MethodGet, "/api/logs/sing-box", true)
	var before logview.LiveSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if before.Seq != 0 {
		t.Errorf("seq before first tick = %d, want 0", before.Seq)
	}

	rec = env.do(t, http.MethodGet, "/api/logs/sing-box?refresh=true", true)
	var after logview.LiveSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Seq != 1 || after.Content != "sing-box started" {
		t.Errorf("after refresh = %+v", after)
	}
}

func TestDaemonLogs(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{})

	rec := env.do(t, http.MethodGet, "/api/logs/daemon", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"entries"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func readDataLines(t *testing.T, body io.Reader) <-chan string {
	t.Helper()
	lines := make(chan string, 10)
	go func() {
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "data:") {
				lines <- line
			}
		}
	}()
	return lines
}

func TestSingBoxLogStream(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{})
	env.tailer.Refresh()

	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/logs/sing-box/stream?auth=%s", ts.URL, basicAuth()))
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	defer resp.Body.Close()

	if !strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		t.Fatalf("Expected SSE content type, got %s", resp.Header.Get("Content-Type"))
	}

	lines := readDataLines(t, resp.Body)

	select {
	case msg := <-lines:
		if !strings.Contains(msg, "sing-box started") {
			t.Errorf("initial snapshot = %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for initial snapshot")
	}

	env.logs[logview.SingBoxLog] = &fstest.MapFile{Data: []byte("outbound connected\n")}
	// The subscription is registered before the initial snapshot is sent.
	env.tailer.Refresh()

	select {
	case msg := <-lines:
		if !strings.Contains(msg, "outbound connected") || !strings.Contains(msg, `"seq":2`) {
			t.Errorf("tick = %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for tick")
	}
}

func TestNotificationStream(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{versionErr: &geodata.Error{Code: geodata.ErrCodeExecFailed, Detail: "exit status 127"}})

	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	resp, err := http.Get(fmt.Sprintf("%s/api/notifications/stream?auth=%s", ts.URL, basicAuth()))
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	defer resp.Body.Close()

	lines := readDataLines(t, resp.Body)

	// The handler subscribes before its first read; retry until the
	// notification makes it through.
	deadline := time.After(2 * time.Second)
	for {
		env.do(t, http.MethodGet, "/api/geodata/version", true)
		select {
		case msg := <-lines:
			if !strings.Contains(msg, "Unknown error: exit status 127") {
				t.Errorf("notification = %s", msg)
			}
			return
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("Timeout waiting for notification")
		}
	}
}

func TestPublicEndpointsWithHumatest(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{})
	api := humatest.Wrap(t, env.server.GetAPI())

	resp := api.Get("/api/health")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"status":"ok"`) {
		t.Errorf("health = %d %s", resp.Code, resp.Body.String())
	}

	resp = api.Get("/api/version")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"go_version"`) {
		t.Errorf("version = %d %s", resp.Code, resp.Body.String())
	}

	resp = api.Post("/api/geodata/update", "Authorization: Basic "+basicAuth())
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"reset":true`) {
		t.Errorf("update = %d %s", resp.Code, resp.Body.String())
	}
}

func TestPageShowsVersionFailureNotification(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{versionErr: errors.New("script missing")})

	rec := env.do(t, http.MethodGet, "/", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `<strong style="color:red">unknown error</strong>`) {
		t.Error("page missing the failed version field")
	}
	if !strings.Contains(body, `<p class="alert-message">Unknown error: script missing</p>`) {
		t.Error("page missing the version failure notification")
	}
}

func TestPageAPICarriesUpdateOutcome(t *testing.T) {
	env := newTestEnv(t, &mockGeoData{version: "20260101", result: geodata.ResultSuccess})
	api := humatest.Wrap(t, env.server.GetAPI())
	auth := "Authorization: Basic " + basicAuth()

	resp := api.Post("/api/geodata/update", auth)
	var outcome view.UpdateOutcome
	if err := json.Unmarshal(resp.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp = api.Get("/api/page?update="+outcome.ID, auth)
	var page view.Page
	if err := json.Unmarshal(resp.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Update.Description != "Successfully updated" || page.Update.OutcomeID != outcome.ID {
		t.Errorf("update button = %+v", page.Update)
	}
}
