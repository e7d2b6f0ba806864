package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// MaxPeriods bounds the number of rows in a single channel table.
	MaxPeriods = 16
	// MaxIntensity is the fully-on output level.
	MaxIntensity = 255
)

// Period is one row of a channel table: a constant level held from Start to End.
type Period struct {
	// Start is the inclusive beginning of the period.
	Start TimeOfDay
	// End is the inclusive end of the period; EndOfDay closes the table.
	End TimeOfDay
	// Intensity is the level held during the period, 0 through 255.
	Intensity int
}

// ChannelSchedule is the ordered period table of one output channel.
// Rows after the terminal period are placeholders and never read.
type ChannelSchedule struct {
	// Name identifies the channel in logs, topics and metrics.
	// Empty names are replaced with DefaultChannelName.
	Name string
	// Periods lists the rows in chronological order.
	Periods []Period
}

// ChannelSet is a validated, immutable collection of channel tables.
type ChannelSet struct {
	// channels holds copies of the validated tables, trimmed to the terminal row.
	channels []ChannelSchedule
}

// NewChannelSet validates the tables and returns a set ready for resolving.
// Every problem found is reported as a *ConfigurationError; several are joined.
func NewChannelSet(channels ...ChannelSchedule) (*ChannelSet, error) {
	if len(channels) == 0 {
		return nil, &ConfigurationError{Channel: -1, Row: -1, Reason: "no channels configured"}
	}

	var (
		errs  []error
		seen  = make(map[string]int, len(channels))
		valid = make([]ChannelSchedule, 0, len(channels))
	)

	for i, channel := range channels {
		if channel.Name == "" {
			channel.Name = DefaultChannelName(i)
		}

		if reason := checkName(channel.Name); reason != "" {
			errs = append(errs, &ConfigurationError{
				Channel: i,
				Name:    channel.Name,
				Row:     -1,
				Reason:  reason,
			})

			continue
		}

		if first, ok := seen[channel.Name]; ok {
			errs = append(errs, &ConfigurationError{
				Channel: i,
				Name:    channel.Name,
				Row:     -1,
				Reason:  fmt.Sprintf("name already used by channel %d", first),
			})

			continue
		}

		seen[channel.Name] = i

		length, err := effectiveLength(i, &channel)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		valid = append(valid, ChannelSchedule{
			Name:    channel.Name,
			Periods: slices.Clone(channel.Periods[:length]),
		})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &ChannelSet{channels: valid}, nil
}

// DefaultChannelName names an unnamed channel after its index.
func DefaultChannelName(index int) string {
	return fmt.Sprintf("channel-%d", index)
}

// checkName returns why name cannot be used as a single MQTT topic level
// and metric label, or "" when it can.
func checkName(name string) string {
	switch {
	case strings.ContainsAny(name, "/+#\x00"):
		return "name must not contain '/', '+', '#' or NUL"
	case strings.Contains(name, ".."):
		return "name must not contain '..'"
	default:
		return ""
	}
}

// effectiveLength checks one table and returns the number of rows up to and
// including the terminal period.
func effectiveLength(index int, channel *ChannelSchedule) (int, error) {
	fail := func(row int, format string, args ...any) error {
		return &ConfigurationError{
			Channel: index,
			Name:    channel.Name,
			Row:     row,
			Reason:  fmt.Sprintf(format, args...),
		}
	}

	periods := channel.Periods

	switch {
	case len(periods) == 0:
		return 0, fail(-1, "no periods")
	case len(periods) > MaxPeriods:
		return 0, fail(-1, "%d periods, at most %d allowed", len(periods), MaxPeriods)
	case periods[0].Start != 0:
		return 0, fail(0, "first period starts at %s, must start at 00:00:00", periods[0].Start)
	}

	for row, period := range periods {
		if period.Start < 0 || period.End > EndOfDay || period.Start > period.End {
			return 0, fail(row, "bad bounds %s-%s", period.Start, period.End)
		}

		if period.Intensity < 0 || period.Intensity > MaxIntensity {
			return 0, fail(row, "intensity %d outside 0..%d", period.Intensity, MaxIntensity)
		}

		if period.End == EndOfDay {
			return row + 1, nil
		}

		if row+1 == len(periods) {
			break
		}

		next := periods[row+1]

		switch {
		case next.Start < period.Start:
			return 0, fail(row+1, "starts at %s, before previous period start %s", next.Start, period.Start)
		case next.Start < period.End:
			return 0, fail(row+1, "starts at %s, overlapping previous period ending %s", next.Start, period.End)
		case next.Start == period.End:
			return 0, fail(row+1, "no transition gap after previous period ending %s", period.End)
		}
	}

	return 0, fail(-1, "no period ends at 24:00:00")
}

// Len returns the number of channels.
func (s *ChannelSet) Len() int {
	return len(s.channels)
}

// Names returns the channel names in index order.
func (s *ChannelSet) Names() []string {
	names := make([]string, len(s.channels))
	for i, channel := range s.channels {
		names[i] = channel.Name
	}

	return names
}

// channel returns a copy of the validated table at index i, trimmed to its
// terminal period.
func (s *ChannelSet) channel(i int) ChannelSchedule {
	channel := s.channels[i]

	return ChannelSchedule{
		Name:    channel.Name,
		Periods: slices.Clone(channel.Periods),
	}
}
