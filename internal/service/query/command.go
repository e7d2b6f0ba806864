// Package query asks a running light-controller for its snapshot over gRPC.
package query

import (
	"context"
	"fmt"
	"io"

	"github.com/oshokin/light-scheduler/internal/config"
	"github.com/oshokin/light-scheduler/internal/domain/schedule"
	"github.com/oshokin/light-scheduler/internal/logger"
	"github.com/oshokin/light-scheduler/internal/repository/snapshot"
	"github.com/oshokin/light-scheduler/internal/service/common"
	"github.com/oshokin/light-scheduler/internal/service/resolve"
)

// Options configures the query command.
type Options struct {
	// ConfigPath is the settings file holding the controller address.
	ConfigPath string
	// ServerAddress overrides the address from the settings.
	ServerAddress string
	// Time asks the controller to resolve HH:MM[:SS] instead of returning its latest snapshot.
	Time string
	// Format is resolve.FormatText or resolve.FormatJSON.
	Format string
}

// Run prints the snapshot reported by the controller.
func Run(ctx context.Context, opts *Options, out io.Writer) error {
	ctx = logger.WithName(ctx, "query")

	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	serverAddress := settings.GRPCAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(settings.Timeout))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Querying controller", "server_address", serverAddress, "time", opts.Time)

	var record *snapshot.Record

	if opts.Time == "" {
		record, err = client.GetSnapshot(ctx)
	} else {
		var at schedule.TimeOfDay

		at, err = schedule.ParseTimeOfDay(opts.Time)
		if err != nil {
			return err
		}

		record, err = client.Resolve(ctx, at)
	}

	if err != nil {
		return err
	}

	return resolve.Print(out, opts.Format, record)
}
