package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/light-scheduler/internal/config"
	"github.com/oshokin/light-scheduler/internal/logger"
	"github.com/oshokin/light-scheduler/internal/version"
)

var (
	// logLevel is the minimum level written to stderr.
	logLevel string

	// rootCmd represents the base command of the schedule tool.
	rootCmd = &cobra.Command{
		Use:   "light-schedule",
		Short: "Inspect and check light channel schedules.",
		Long: `Works with the YAML schedule used by light-controller.

A schedule lists, for every output channel, periods of constant intensity
(0 to 255) covering the day from 00:00 to 24:00. Between two periods the
intensity fades linearly. Use resolve to see the levels at a given time,
validate to check a file before deploying it, preview to print the whole day
and query to ask a running controller.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logger.Configure(logLevel, logger.FormatConsole)
		},
	}
)

// Execute runs the light-schedule CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addScheduleFlag binds the common --schedule flag.
func addScheduleFlag(command *cobra.Command, target *string) {
	command.Flags().StringVarP(target, "schedule", "f", config.DefaultScheduleFilename, "path to schedule file")
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(resolveCmd, validateCmd, previewCmd, queryCmd)
}
