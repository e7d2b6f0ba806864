package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSchedule is matched by every ConfigurationError.
	ErrInvalidSchedule = errors.New("invalid schedule")
	// ErrBufferSize is returned when a caller buffer does not fit the channel count.
	ErrBufferSize = errors.New("buffer size does not match channel count")
	// ErrUnknownChannel is returned for a channel index outside the set.
	ErrUnknownChannel = errors.New("unknown channel")
)

// ConfigurationError describes a schedule table that violates an invariant.
// It is raised once, when a ChannelSet is built, and never while resolving.
type ConfigurationError struct {
	// Channel is the index of the offending channel, or -1 for set-wide problems.
	Channel int
	// Name is the channel name, if any.
	Name string
	// Row is the index of the offending period, or -1 when not row-specific.
	Row int
	// Reason explains the violated invariant.
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	var where string

	switch {
	case e.Channel < 0:
		where = "schedule"
	case e.Name != "":
		where = fmt.Sprintf("channel %d (%s)", e.Channel, e.Name)
	default:
		where = fmt.Sprintf("channel %d", e.Channel)
	}

	if e.Row >= 0 {
		where += fmt.Sprintf(", period %d", e.Row)
	}

	return fmt.Sprintf("%s: %s: %s", ErrInvalidSchedule, where, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidSchedule) hold for configuration errors.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidSchedule
}
