// Package view assembles the HomeProxy status page: it loads backend state,
// renders the page tree and performs the GeoData update action.
package view

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smazurov/homeproxy-status/internal/events"
	"github.com/smazurov/homeproxy-status/internal/geodata"
	"github.com/smazurov/homeproxy-status/internal/logview"
	"github.com/smazurov/homeproxy-status/internal/metrics"
	"github.com/smazurov/homeproxy-status/internal/status"
)

// StatusChecker reports whether a backend instance is running.
type StatusChecker interface {
	Running(ctx context.Context, instance string) bool
}

// GeoData reads and updates the GeoData blob.
type GeoData interface {
	Version(ctx context.Context) (string, error)
	Update(ctx context.Context) (geodata.UpdateResult, error)
}

// Data is what Load gathers before the first render.
type Data struct {
	SingBoxRunning bool   `json:"sing_box_running" doc:"Whether the sing-box instance is running"`
	V2rayRunning   bool   `json:"v2ray_running" doc:"Whether the v2ray instance is running"`
	HomeProxyLog   string `json:"homeproxy_log" doc:"HomeProxy log contents or a substitute message"`
}

// UpdateOutcome is the result of the update action. Reset is always true:
// the page is rendered again whatever the outcome, passing ID back so the
// new render shows this outcome.
type UpdateOutcome struct {
	ID          string `json:"id" format:"uuid" doc:"Pass as ?update=<id> when rendering the page again"`
	Code        int    `json:"code" minimum:"0" maximum:"4" doc:"Result code: 0 success, 1 failed, 2 already updating, 3 already latest, 4 unknown"`
	Result      string `json:"result" enum:"success,failed,already_updating,already_latest,unknown_error" doc:"Update result"`
	Description string `json:"description" example:"Already in updating" doc:"Text shown under the update button"`
	Reset       bool   `json:"reset" doc:"Whether the page must be re-rendered"`

	Notifications []string `json:"notifications,omitempty" doc:"Transient notifications raised by the update"`
}

// Options configures a StatusView.
type Options struct {
	Status  StatusChecker
	Logs    fs.FS
	GeoData GeoData
	Bus     *events.Bus
	Logger  *slog.Logger
	// PollInterval is announced in the live log pane.
	PollInterval time.Duration
	// LiveStream is the URL the live log pane subscribes to.
	LiveStream string
	// UpdateAction is the URL the update button posts to.
	UpdateAction string
}

// StatusView is the HomeProxy status page.
type StatusView struct {
	opts    Options
	logger  *slog.Logger
	updates *outcomeStore
}

// New creates a StatusView.
func New(opts Options) *StatusView {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = logview.DefaultPollInterval
	}
	return &StatusView{opts: opts, logger: opts.Logger, updates: newOutcomeStore()}
}

// Load concurrently fetches both running flags and the HomeProxy log and
// returns once all three are done. Failures have already been converted to
// default values.
func (v *StatusView) Load(ctx context.Context) Data {
	var data Data
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		data.SingBoxRunning = v.opts.Status.Running(ctx, status.InstanceSingBox)
	}()
	go func() {
		defer wg.Done()
		data.V2rayRunning = v.opts.Status.Running(ctx, status.InstanceV2ray)
	}()
	go func() {
		defer wg.Done()
		snap := logview.ReadStatic(v.opts.Logs, logview.HomeProxyLog)
		if snap.Outcome == logview.OutcomeError {
			v.logger.Warn("HomeProxy log read failed", "detail", snap.Content)
		}
		data.HomeProxyLog = snap.Content
	}()

	wg.Wait()

	metrics.SetInstanceRunning(status.InstanceSingBox, data.SingBoxRunning)
	metrics.SetInstanceRunning(status.InstanceV2ray, data.V2rayRunning)
	v.publish(events.ServiceStatusEvent{
		SingBoxRunning: data.SingBoxRunning,
		V2rayRunning:   data.V2rayRunning,
		Timestamp:      time.Now().Format(time.RFC3339),
	})
	return data
}

// FetchVersion starts the GeoData version lookup and returns its result slot
// without waiting for it. A failed lookup carries its notification in the
// field. A lookup cut short by ctx fails without one.
func (v *StatusView) FetchVersion(ctx context.Context) *VersionSlot {
	slot := newVersionSlot()
	go func() {
		version, err := v.opts.GeoData.Version(ctx)
		if err != nil {
			if ctx.Err() != nil {
				v.logger.Debug("GeoData version lookup abandoned", "error", err)
				slot.resolve(VersionField{Failed: true})
				return
			}
			metrics.IncGeoDataVersionFailure()
			notice := "Unknown error: " + errorDetail(err)
			v.notify(notice)
			slot.resolve(VersionField{Failed: true, Notice: notice})
			return
		}
		slot.resolve(VersionField{Version: version})
	}()
	return slot
}

// Render builds the page tree from loaded data, a resolved version and the
// outcome of the update that led to this render, if any.
func (v *StatusView) Render(data Data, version VersionField, update UpdateOutcome) Page {
	var notifications []string
	if version.Notice != "" {
		notifications = append(notifications, version.Notice)
	}
	notifications = append(notifications, update.Notifications...)

	return Page{
		Section: "Service information",
		ServiceStatus: []InstanceStatus{
			{Label: "Sing-box", Running: data.SingBoxRunning},
			{Label: "V2ray", Running: data.V2rayRunning},
		},
		GeoData: version,
		Update: Button{
			Name:        FieldUpdateGeoData,
			Title:       "Update GeoData",
			Description: update.Description,
			Action:      v.opts.UpdateAction,
			OutcomeID:   update.ID,
		},
		HomeProxyLog: LogPane{
			Name:    FieldHomeProxyLog,
			Title:   "HomeProxy log",
			Content: data.HomeProxyLog,
		},
		SingBoxLog: LivePane{
			Name:        FieldSingBoxLog,
			Title:       "Sing-box log",
			Placeholder: textCollectingData,
			LoadingAlt:  textLoading,
			RefreshNote: fmt.Sprintf("Refresh every %d seconds.", int(v.opts.PollInterval/time.Second)),
			Stream:      v.opts.LiveStream,
		},
		Capabilities:  ReadOnly(),
		Notifications: notifications,
	}
}

// UpdateGeoData runs the update script and stores the outcome under a new
// ID for the render that follows. Transport failures become "Update failed"
// plus a notification. An unrecognized exit code keeps the description of
// the outcome previous refers to.
func (v *StatusView) UpdateGeoData(ctx context.Context, previous string) UpdateOutcome {
	var notifications []string
	result, err := v.opts.GeoData.Update(ctx)
	if err != nil {
		notice := "Unknown error: " + errorDetail(err)
		v.notify(notice)
		notifications = append(notifications, notice)
		result = geodata.ResultFailed
	}

	description := result.Message()
	if result == geodata.ResultUnknown {
		description = v.updates.description(previous)
	}

	outcome := UpdateOutcome{
		ID:            uuid.NewString(),
		Code:          int(result),
		Result:        result.String(),
		Description:   description,
		Reset:         true,
		Notifications: notifications,
	}
	v.updates.put(outcome)

	metrics.IncGeoDataUpdate(result.String())
	v.publish(events.GeoDataUpdatedEvent{
		Result:      result.String(),
		Description: description,
		Timestamp:   time.Now().Format(time.RFC3339),
	})

	return outcome
}

// UpdateResult returns the outcome stored under id for rendering, or the
// zero outcome when id is empty or unknown.
func (v *StatusView) UpdateResult(id string) UpdateOutcome {
	if id == "" {
		return UpdateOutcome{}
	}
	outcome, _ := v.updates.take(id)
	return outcome
}

func (v *StatusView) notify(message string) {
	v.logger.Warn("User notification", "message", message)
	v.publish(events.NotificationEvent{
		Message:   message,
		Source:    "geodata",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (v *StatusView) publish(ev events.Event) {
	if v.opts.Bus != nil {
		v.opts.Bus.Publish(ev)
	}
}

// errorDetail prefers the user-facing detail of geodata errors.
func errorDetail(err error) string {
	var gerr *geodata.Error
	if errors.As(err, &gerr) {
		return gerr.Detail
	}
	return err.Error()
}
