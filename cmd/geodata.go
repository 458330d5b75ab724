package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/smazurov/homeproxy-status/internal/command"
	"github.com/smazurov/homeproxy-status/internal/geodata"
	"github.com/smazurov/homeproxy-status/internal/logging"
)

// CreateGeoDataCmd creates the geodata command with its version and update
// subcommands.
func CreateGeoDataCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "geodata",
		Short: "Query or update the GeoData blob",
	}
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Give up on the updater script after this long")

	newUpdater := func(opts *Options) *geodata.Updater {
		return geodata.NewUpdater(opts.GeoUpdaterScript, command.NewExecRunner(), logging.GetLogger("geodata"))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the installed GeoData version",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, opts *Options) {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			version, err := newUpdater(opts).Version(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Unknown error:", err)
				os.Exit(1)
			}
			fmt.Println(version)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Run the GeoData update",
		Long:  `Runs the updater script and prints its outcome. The exit code is the updater's result code.`,
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, opts *Options) {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			result, err := newUpdater(opts).Update(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Unknown error:", err)
				os.Exit(int(geodata.ResultFailed))
			}
			if msg := result.Message(); msg != "" {
				fmt.Println(msg)
			} else {
				fmt.Println("Updater exited with an unrecognized code")
			}
			os.Exit(int(result))
		}),
	})

	return cmd
}
