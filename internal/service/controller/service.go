package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/light-scheduler/internal/domain/schedule"
	"github.com/oshokin/light-scheduler/internal/logger"
	"github.com/oshokin/light-scheduler/internal/output"
	"github.com/oshokin/light-scheduler/internal/repository/snapshot"
)

// failureRecorder counts snapshots the outputs rejected.
type failureRecorder interface {
	OutputFailed()
}

// service owns the resolved state of the controller.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// set is the validated schedule.
	set *schedule.ChannelSet
	// names caches the channel names of set.
	names []string
	// driver receives every snapshot.
	driver output.Driver
	// repo stores the latest snapshot; may be nil.
	repo snapshot.Repository
	// failures is told about delivery failures; may be nil.
	failures failureRecorder
	// now reads the wall clock.
	now func() time.Time

	// mu protects latest.
	mu sync.RWMutex
	// latest is the most recent snapshot, replaced as a whole on every tick.
	latest *snapshot.Record
}

// newService creates a service over a validated schedule.
func newService(set *schedule.ChannelSet, driver output.Driver, repo snapshot.Repository, now func() time.Time) *service {
	if now == nil {
		now = time.Now
	}

	return &service{
		set:    set,
		names:  set.Names(),
		driver: driver,
		repo:   repo,
		now:    now,
	}
}

// restore logs the snapshot left by a previous run, if any.
func (s *service) restore(ctx context.Context) {
	if s.repo == nil {
		return
	}

	previous, err := s.repo.Load(ctx)

	switch {
	case err == nil:
		logger.InfoKV(ctx, "Previous snapshot found",
			"time", previous.Snapshot.Time.String(),
			"channels", previous.Names,
			"levels", previous.Snapshot.Levels)
	case errors.Is(err, snapshot.ErrNotFound):
		// First run.
	default:
		logger.WarnKV(ctx, "Unable to read previous snapshot", "error", err)
	}
}

// Tick resolves the schedule for the current wall-clock time and delivers it.
// The snapshot is published even when some outputs fail; their errors are returned.
func (s *service) Tick(ctx context.Context) error {
	at := schedule.FromTime(s.now())

	record, err := s.Resolve(ctx, at)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.latest = record
	s.mu.Unlock()

	var errs []error

	if err = s.driver.Write(ctx, record.Names, record.Snapshot); err != nil {
		if s.failures != nil {
			s.failures.OutputFailed()
		}

		errs = append(errs, fmt.Errorf("write outputs: %w", err))
	}

	if s.repo != nil {
		if err = s.repo.Save(ctx, record); err != nil {
			errs = append(errs, fmt.Errorf("persist snapshot: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Snapshot returns a copy of the latest snapshot, or nil before the first tick.
func (s *service) Snapshot(_ context.Context) *snapshot.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latest.Clone()
}

// Resolve computes the snapshot for t without delivering it.
func (s *service) Resolve(_ context.Context, t schedule.TimeOfDay) (*snapshot.Record, error) {
	snap, err := s.set.Resolve(t)
	if err != nil {
		return nil, fmt.Errorf("resolve %d: %w", int(t), err)
	}

	record := &snapshot.Record{
		Names:    s.names,
		Snapshot: snap,
	}

	return record.Clone(), nil
}
