package logview

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/smazurov/homeproxy-status/internal/events"
)

// DefaultPollInterval matches the router UI's default poll interval.
const DefaultPollInterval = 5 * time.Second

// LiveSnapshot is the most recently applied tick.
type LiveSnapshot struct {
	Snapshot
	Seq       uint64    `json:"seq" doc:"Tick number of the applied content; 0 until the first tick"`
	UpdatedAt time.Time `json:"updated_at" doc:"When the content was applied"`
}

// TailerOptions configures a Tailer.
type TailerOptions struct {
	// FS and Name locate the log file.
	FS   fs.FS
	Name string
	// Dir is the directory watched for changes to Name. Empty disables
	// change notifications and leaves only the interval.
	Dir      string
	Interval time.Duration
	Bus      *events.Bus
	Logger   *slog.Logger
	// OnTick observes each tick's outcome and whether it was applied.
	OnTick func(outcome Outcome, applied bool)
}

// Tailer polls a log file on a fixed interval, replacing its snapshot with
// each result and publishing it as an events.LiveLogEvent. A tick whose
// result arrives after a newer tick was applied, or after Stop, is dropped.
type Tailer struct {
	opts TailerOptions

	mu      sync.Mutex
	nextSeq uint64
	current LiveSnapshot
	running bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
	wake    chan struct{}
}

// NewTailer creates a stopped Tailer.
func NewTailer(opts TailerOptions) *Tailer {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Tailer{
		opts: opts,
		wake: make(chan struct{}, 1),
	}
}

// Interval returns the poll interval.
func (t *Tailer) Interval() time.Duration {
	return t.opts.Interval
}

// Start launches the poll loop. The first tick runs immediately.
func (t *Tailer) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return errors.New("tailer already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.running = true
	t.stopped = false

	watcher := t.newWatcher()
	go t.loop(loopCtx, watcher, t.done)

	t.opts.Logger.Info("Live log polling started", "file", t.opts.Name, "interval", t.opts.Interval)
	return nil
}

// Stop halts the poll loop and waits for it to exit. In-flight ticks that
// finish afterwards are discarded.
func (t *Tailer) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.stopped = true
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	cancel()
	<-done
	t.opts.Logger.Info("Live log polling stopped", "file", t.opts.Name)
}

// Running reports whether the poll loop is active.
func (t *Tailer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Snapshot returns the latest applied content.
func (t *Tailer) Snapshot() LiveSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Refresh runs one tick outside the schedule and returns the snapshot in
// effect afterwards.
func (t *Tailer) Refresh() LiveSnapshot {
	t.tick()
	return t.Snapshot()
}

func (t *Tailer) loop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var fsEvents <-chan fsnotify.Event
	var fsErrors <-chan error
	if watcher != nil {
		defer watcher.Close()
		fsEvents = watcher.Events
		fsErrors = watcher.Errors
	}

	ticker := time.NewTicker(t.opts.Interval)
	defer ticker.Stop()

	t.tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick()
		case <-t.wake:
			t.tick()
		case ev, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if filepath.Base(ev.Name) == t.opts.Name {
				t.poke()
			}
		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			t.opts.Logger.Warn("Log watcher error", "error", err)
		}
	}
}

// poke schedules an early tick, coalescing bursts of file events.
func (t *Tailer) poke() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

func (t *Tailer) newWatcher() *fsnotify.Watcher {
	if t.opts.Dir == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.opts.Logger.Warn("Log watcher unavailable, polling only", "error", err)
		return nil
	}
	if err := watcher.Add(t.opts.Dir); err != nil {
		t.opts.Logger.Warn("Cannot watch log directory, polling only", "dir", t.opts.Dir, "error", err)
		watcher.Close()
		return nil
	}
	return watcher
}

func (t *Tailer) tick() {
	t.mu.Lock()
	t.nextSeq++
	seq := t.nextSeq
	t.mu.Unlock()

	t.complete(seq, ReadLive(t.opts.FS, t.opts.Name))
}

// complete applies the result of tick seq unless it is stale.
func (t *Tailer) complete(seq uint64, snap Snapshot) bool {
	t.mu.Lock()
	applied := seq > t.current.Seq && !t.stopped
	var live LiveSnapshot
	if applied {
		live = LiveSnapshot{Snapshot: snap, Seq: seq, UpdatedAt: time.Now()}
		t.current = live
	}
	t.mu.Unlock()

	if t.opts.OnTick != nil {
		t.opts.OnTick(snap.Outcome, applied)
	}
	if !applied {
		t.opts.Logger.Debug("Dropped stale log tick", "file", t.opts.Name, "seq", seq)
		return false
	}
	if snap.Outcome == OutcomeError {
		t.opts.Logger.Warn("Live log read failed", "file", t.opts.Name, "detail", snap.Content)
	}
	if t.opts.Bus != nil {
		t.opts.Bus.Publish(events.LiveLogEvent{
			Seq:       live.Seq,
			Name:      t.opts.Name,
			Content:   live.Content,
			Timestamp: live.UpdatedAt.Format(time.RFC3339),
		})
	}
	return true
}
