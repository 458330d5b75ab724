package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/homeproxy-status/cmd"
	"github.com/smazurov/homeproxy-status/internal/api"
	"github.com/smazurov/homeproxy-status/internal/config"
	"github.com/smazurov/homeproxy-status/internal/events"
	"github.com/smazurov/homeproxy-status/internal/logging"
	"github.com/smazurov/homeproxy-status/internal/logview"
	"github.com/smazurov/homeproxy-status/internal/metrics"
	"github.com/smazurov/homeproxy-status/internal/metrics/exporters"
	"github.com/smazurov/homeproxy-status/internal/version"
	"github.com/smazurov/homeproxy-status/internal/view"
)

func main() {
	var cli humacli.CLI

	// Create Huma CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *cmd.Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(opts.LoggingConfig())
		logger := logging.GetLogger("main")

		eventBus := events.New()

		backend, err := cmd.NewBackend(context.Background(), opts)
		if err != nil {
			logger.Error("Failed to set up status backend", "backend", opts.StatusBackend, "error", err)
			os.Exit(1)
		}

		pollInterval := opts.PollIntervalDuration()

		// The live pane shares the run dir with the one-shot HomeProxy log.
		tailer := logview.NewTailer(logview.TailerOptions{
			FS:       os.DirFS(opts.RunDir),
			Name:     logview.SingBoxLog,
			Dir:      opts.RunDir,
			Interval: pollInterval,
			Bus:      eventBus,
			Logger:   logging.GetLogger("logview"),
			OnTick: func(outcome logview.Outcome, applied bool) {
				metrics.IncLogTick(string(outcome), applied)
			},
		})

		statusView := view.New(view.Options{
			Status:       backend.Checker,
			Logs:         os.DirFS(opts.RunDir),
			GeoData:      backend.GeoData,
			Bus:          eventBus,
			Logger:       logging.GetLogger("view"),
			PollInterval: pollInterval,
			LiveStream:   "/api/logs/sing-box/stream",
			UpdateAction: "/api/geodata/update",
		})

		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			View:         statusView,
			LiveLog:      tailer,
			EventBus:     eventBus,
		}
		if opts.MetricsEnabled {
			apiOpts.PrometheusHandler = exporters.HTTPHandler()
		}

		server := api.NewServer(apiOpts)

		hooks.OnStart(func() {
			if startErr := tailer.Start(context.Background()); startErr != nil {
				logger.Warn("Failed to start live log polling", "error", startErr)
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if stopErr := server.Stop(ctx); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			// Pending ticks are discarded once the tailer is stopped.
			tailer.Stop()
			backend.Close()
		})
	})

	cli.Root().Version = version.Short()
	cli.Root().AddCommand(cmd.CreateStatusCmd())
	cli.Root().AddCommand(cmd.CreateGeoDataCmd())

	// Run the CLI
	cli.Run()
}
