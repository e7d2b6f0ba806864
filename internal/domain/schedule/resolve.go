package schedule

import (
	"fmt"
	"slices"
)

// Snapshot holds the levels computed for every channel at one instant.
type Snapshot struct {
	// Time is the instant the levels were resolved for.
	Time TimeOfDay
	// Levels has one entry per channel, in channel order.
	Levels []uint8
}

// Clone returns a copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Time:   s.Time,
		Levels: slices.Clone(s.Levels),
	}
}

// Resolve computes the level of every channel at time t.
func (s *ChannelSet) Resolve(t TimeOfDay) (Snapshot, error) {
	levels := make([]uint8, len(s.channels))
	if err := s.ResolveInto(t, levels); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Time: t, Levels: levels}, nil
}

// ResolveInto writes the level of every channel at time t into dst.
// dst is left untouched when an error is returned.
func (s *ChannelSet) ResolveInto(t TimeOfDay, dst []uint8) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if len(dst) != len(s.channels) {
		return fmt.Errorf("%d slots for %d channels: %w", len(dst), len(s.channels), ErrBufferSize)
	}

	for i := range s.channels {
		dst[i] = level(s.channels[i].Periods, t)
	}

	return nil
}

// ResolveChannel computes the level of the channel at index i at time t.
func (s *ChannelSet) ResolveChannel(i int, t TimeOfDay) (uint8, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	if i < 0 || i >= len(s.channels) {
		return 0, fmt.Errorf("channel %d of %d: %w", i, len(s.channels), ErrUnknownChannel)
	}

	return level(s.channels[i].Periods, t), nil
}

// level scans a validated table. The last row always ends at EndOfDay, so the
// scan returns before running past it for any t in range.
func level(periods []Period, t TimeOfDay) uint8 {
	for i := range periods {
		current := periods[i]
		if current.End >= t {
			return uint8(current.Intensity) //nolint:gosec // Intensity is validated to 0..255.
		}

		next := periods[i+1]
		if next.Start <= t {
			continue
		}

		var (
			gap     = int(next.Start - current.End)
			elapsed = int(t - current.End)
			delta   = next.Intensity - current.Intensity
		)

		// Go integer division truncates toward zero for both fade directions.
		return uint8(current.Intensity + elapsed*delta/gap) //nolint:gosec // Result lies between two validated levels.
	}

	return 0
}
