package output

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/oshokin/light-scheduler/internal/domain/schedule"
	"github.com/oshokin/light-scheduler/internal/logger"
)

// Driver receives every snapshot the controller resolves.
// names holds the channel names in the same order as snapshot.Levels.
type Driver interface {
	Write(ctx context.Context, names []string, snapshot schedule.Snapshot) error
}

// Multi fans a snapshot out to several drivers.
type Multi []Driver

// Write calls every driver, even after a failure, and joins the errors.
func (m Multi) Write(ctx context.Context, names []string, snapshot schedule.Snapshot) error {
	var errs []error

	for _, driver := range m {
		if err := driver.Write(ctx, names, snapshot); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// LogDriver logs every snapshot at debug level and level changes at info level.
type LogDriver struct {
	// last holds the levels of the previous snapshot.
	last []uint8
}

// NewLogDriver creates a LogDriver.
func NewLogDriver() *LogDriver {
	return new(LogDriver)
}

// Write implements Driver. It is not safe for concurrent use.
func (d *LogDriver) Write(ctx context.Context, names []string, snapshot schedule.Snapshot) error {
	logger.DebugKV(ctx, "Snapshot resolved", "time", snapshot.Time.String(), "levels", snapshot.Levels)

	for i, level := range snapshot.Levels {
		if d.last != nil && i < len(d.last) && d.last[i] == level {
			continue
		}

		logger.InfoKV(ctx, "Channel level changed", "time", snapshot.Time.String(), "channel", nameAt(names, i), "intensity", level)
	}

	d.last = slices.Clone(snapshot.Levels)

	return nil
}

// nameAt returns names[i] or a generated name when the slice is short.
func nameAt(names []string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}

	return schedule.DefaultChannelName(i)
}

// errNoLevels is returned for snapshots without any channel.
var errNoLevels = errors.New("snapshot has no levels")

// checkSnapshot rejects snapshots that cannot be delivered.
func checkSnapshot(names []string, snapshot schedule.Snapshot) error {
	if len(snapshot.Levels) == 0 {
		return errNoLevels
	}

	if len(names) != 0 && len(names) != len(snapshot.Levels) {
		return fmt.Errorf("%d names for %d levels: %w", len(names), len(snapshot.Levels), schedule.ErrBufferSize)
	}

	return nil
}
