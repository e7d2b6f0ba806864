package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"google.golang.org/protobuf/encoding/protojson"

	"github.com/oshokin/light-scheduler/internal/config"
	"github.com/oshokin/light-scheduler/internal/domain/schedule"
	"github.com/oshokin/light-scheduler/internal/logger"
	"github.com/oshokin/light-scheduler/internal/repository/snapshot"
)

// Output formats understood by Print.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultPreviewStep is the spacing of preview rows.
const DefaultPreviewStep = 30 * time.Minute

// Options configures the one-shot commands.
type Options struct {
	// ScheduleFile is the schedule to read.
	ScheduleFile string
	// Time is the HH:MM[:SS] instant to resolve; the wall clock when empty.
	Time string
	// Format is FormatText or FormatJSON.
	Format string
	// Step is the spacing of preview rows.
	Step time.Duration
	// Now replaces the wall clock; time.Now when nil.
	Now func() time.Time
}

var (
	// errUnknownFormat is returned for output formats other than text and json.
	errUnknownFormat = errors.New("unknown output format")
	// errBadStep is returned for preview steps that are not whole seconds in (0, 24h].
	errBadStep = errors.New("step must be a whole number of seconds between 1s and 24h")
)

// Resolve prints the level of every channel at the requested time.
func Resolve(ctx context.Context, opts *Options, out io.Writer) error {
	ctx = logger.WithName(ctx, "resolve")

	set, err := config.LoadSchedule(opts.ScheduleFile)
	if err != nil {
		return err
	}

	at, err := requestedTime(opts)
	if err != nil {
		return err
	}

	snap, err := set.Resolve(at)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Schedule resolved", "schedule_file", opts.ScheduleFile, "time", at.String())

	return Print(out, opts.Format, &snapshot.Record{Names: set.Names(), Snapshot: snap})
}

// Validate reports whether the schedule file is usable.
func Validate(ctx context.Context, opts *Options, out io.Writer) error {
	set, err := config.LoadSchedule(opts.ScheduleFile)
	if err != nil {
		return err
	}

	logger.DebugKV(logger.WithName(ctx, "validate"), "Schedule valid", "schedule_file", opts.ScheduleFile)

	_, err = fmt.Fprintf(out, "%s: OK, %d channel(s): %s\n",
		opts.ScheduleFile, set.Len(), strings.Join(set.Names(), ", "))

	return err
}

// Preview prints a table of every channel level from 00:00 to 24:00 at opts.Step.
func Preview(_ context.Context, opts *Options, out io.Writer) error {
	set, err := config.LoadSchedule(opts.ScheduleFile)
	if err != nil {
		return err
	}

	step := opts.Step
	if step == 0 {
		step = DefaultPreviewStep
	}

	if step < time.Second || step > 24*time.Hour || step%time.Second != 0 {
		return fmt.Errorf("%s: %w", step, errBadStep)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\t"+strings.Join(set.Names(), "\t"))

	levels := make([]uint8, set.Len())

	for at := schedule.TimeOfDay(0); at < schedule.EndOfDay; at += schedule.TimeOfDay(step / time.Second) {
		if err = set.ResolveInto(at, levels); err != nil {
			return err
		}

		cells := make([]string, len(levels))
		for i, level := range levels {
			cells[i] = fmt.Sprint(level)
		}

		_, _ = fmt.Fprintln(w, at.String()+"\t"+strings.Join(cells, "\t"))
	}

	return w.Flush()
}

// Print writes a record as a name/intensity table or as JSON.
func Print(out io.Writer, format string, record *snapshot.Record) error {
	switch format {
	case "", FormatText:
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for i, level := range record.Snapshot.Levels {
			_, _ = fmt.Fprintf(w, "%s\t%d\n", record.Names[i], level)
		}

		return w.Flush()
	case FormatJSON:
		message, err := snapshot.ToStruct(record)
		if err != nil {
			return err
		}

		data, err := protojson.MarshalOptions{Multiline: true}.Marshal(message)
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}

		_, err = fmt.Fprintln(out, string(data))

		return err
	default:
		return fmt.Errorf("%q: %w", format, errUnknownFormat)
	}
}

// requestedTime parses opts.Time or reads the clock.
func requestedTime(opts *Options) (schedule.TimeOfDay, error) {
	if opts.Time == "" {
		now := opts.Now
		if now == nil {
			now = time.Now
		}

		return schedule.FromTime(now()), nil
	}

	at, err := schedule.ParseTimeOfDay(opts.Time)
	if err != nil {
		return 0, err
	}

	return at, at.Validate()
}
