package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/smazurov/homeproxy-status/internal/logging"
	"github.com/smazurov/homeproxy-status/internal/view"
)

// CreateStatusCmd creates the status command.
func CreateStatusCmd() *cobra.Command {
	var asJSON bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print HomeProxy service status",
		Long: `Loads the same data the status page shows (instance state, GeoData version ` +
			`and the HomeProxy log) and prints it once.`,
		Args: cobra.NoArgs,
		Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, opts *Options) {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			backend, err := NewBackend(ctx, opts)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
			defer backend.Close()

			statusView := view.New(view.Options{
				Status:       backend.Checker,
				Logs:         os.DirFS(opts.RunDir),
				GeoData:      backend.GeoData,
				Logger:       logging.GetLogger("view"),
				PollInterval: opts.PollIntervalDuration(),
			})

			slot := statusView.FetchVersion(ctx)
			page := statusView.Render(statusView.Load(ctx), slot.Wait(ctx), view.UpdateOutcome{})

			for _, note := range page.Notifications {
				fmt.Fprintln(os.Stderr, note)
			}
			if err := printPage(os.Stdout, page, asJSON); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page tree as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Give up on backend queries after this long")

	return cmd
}

func printPage(w io.Writer, page view.Page, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	fmt.Fprintf(w, "%s\n\n", page.Section)
	for _, s := range page.ServiceStatus {
		fmt.Fprintf(w, "%s: %s\n", s.Label, s.State())
	}
	fmt.Fprintf(w, "GeoData version: %s\n\n", page.GeoData.Text())
	fmt.Fprintf(w, "%s:\n%s\n", page.HomeProxyLog.Title, page.HomeProxyLog.Content)
	return nil
}
