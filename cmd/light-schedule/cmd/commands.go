package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/light-scheduler/internal/config"
	"github.com/oshokin/light-scheduler/internal/service/query"
	"github.com/oshokin/light-scheduler/internal/service/resolve"
)

var (
	// resolveOptions collects the flags of resolve, validate and preview.
	resolveOptions resolve.Options
	// queryOptions collects the flags of query.
	queryOptions query.Options

	// resolveCmd prints the level of every channel at one time.
	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "Print channel intensities at a time of day.",
		Long: `Resolves the schedule at --time (HH:MM or HH:MM:SS, 00:00:00 to 23:59:59)
and prints one line per channel. Without --time the local wall clock is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return resolve.Resolve(cmd.Context(), &resolveOptions, cmd.OutOrStdout())
		},
	}

	// validateCmd checks a schedule file.
	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Check a schedule file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return resolve.Validate(cmd.Context(), &resolveOptions, cmd.OutOrStdout())
		},
	}

	// previewCmd prints the levels across the day.
	previewCmd = &cobra.Command{
		Use:   "preview",
		Short: "Print channel intensities across the whole day.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return resolve.Preview(cmd.Context(), &resolveOptions, cmd.OutOrStdout())
		},
	}

	// queryCmd asks a running controller.
	queryCmd = &cobra.Command{
		Use:   "query [server-address]",
		Short: "Ask a running light-controller for its levels.",
		Long: `Connects to the gRPC endpoint of a running light-controller and prints its
latest snapshot, or the levels its schedule yields at --time.
The address can be given as argument or read from the configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if len(args) > 0 {
				queryOptions.ServerAddress = args[0]
			}

			return query.Run(ctx, &queryOptions, cmd.OutOrStdout())
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	addScheduleFlag(resolveCmd, &resolveOptions.ScheduleFile)
	resolveCmd.Flags().StringVarP(&resolveOptions.Time, "time", "t", "", "time of day, HH:MM[:SS]")
	resolveCmd.Flags().StringVarP(&resolveOptions.Format, "output", "o", resolve.FormatText, "output format: text or json")

	addScheduleFlag(validateCmd, &resolveOptions.ScheduleFile)

	addScheduleFlag(previewCmd, &resolveOptions.ScheduleFile)
	previewCmd.Flags().DurationVar(&resolveOptions.Step, "step", resolve.DefaultPreviewStep, "spacing between rows")

	queryCmd.Flags().StringVarP(&queryOptions.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	queryCmd.Flags().StringVarP(&queryOptions.Time, "time", "t", "", "resolve this time instead of returning the latest snapshot")
	queryCmd.Flags().StringVarP(&queryOptions.Format, "output", "o", resolve.FormatText, "output format: text or json")
}
