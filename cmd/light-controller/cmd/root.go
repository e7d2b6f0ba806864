package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/light-scheduler/internal/config"
	"github.com/oshokin/light-scheduler/internal/service/controller"
	"github.com/oshokin/light-scheduler/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// scheduleFile overrides the schedule path from the configuration.
	scheduleFile string
	// stateFile overrides where the latest snapshot is written.
	stateFile string
	// once resolves a single snapshot and exits.
	once bool
	// skipInstanceCheck allows several controllers on one host.
	skipInstanceCheck bool

	// rootCmd represents the base command for running the controller.
	rootCmd = &cobra.Command{
		Use:   "light-controller [grpc-listen-address]",
		Short: "Drive dimmable light channels from a daily schedule.",
		Long: `Runs the control loop that turns the channel schedule into output levels.

On every poll interval the controller reads the local wall clock, resolves the
level of every channel and hands the snapshot to the output drivers: the log,
an MQTT broker (one topic per channel) and prometheus metrics when configured.
The latest snapshot is also written to the state file.

The schedule is validated once at startup; an invalid schedule stops the
controller before any output is touched. A gRPC listen address can be given as
argument to override the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var grpcAddress string
			if len(args) > 0 {
				grpcAddress = args[0]
			}

			options := &controller.Options{
				ConfigPath:        configPath,
				ScheduleFile:      scheduleFile,
				StateFile:         stateFile,
				GRPCAddress:       grpcAddress,
				Once:              once,
				SkipInstanceCheck: skipInstanceCheck,
			}

			return controller.Run(ctx, options)
		},
	}
)

// Execute runs the light-controller CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&scheduleFile, "schedule", "f", "", "path to schedule file (overrides configuration)")
	rootCmd.Flags().StringVarP(&stateFile, "state-file", "s", "", "path to write the latest snapshot (overrides configuration)")
	rootCmd.Flags().BoolVar(&once, "once", false, "resolve and deliver a single snapshot, then exit")

	// Hidden flag for running a second controller against other outputs.
	rootCmd.Flags().BoolVar(&skipInstanceCheck, "skip-instance-check", false, "allow several controllers on this host")

	err := rootCmd.Flags().MarkHidden("skip-instance-check")
	if err != nil {
		panic(err)
	}
}
