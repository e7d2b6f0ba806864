package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/light-scheduler/internal/domain/schedule"
)

// Schedule is the YAML document describing every channel table.
type Schedule struct {
	// Channels lists one table per output, in output order.
	Channels []Channel `yaml:"channels"`
}

// Channel is the YAML form of schedule.ChannelSchedule.
type Channel struct {
	// Name identifies the channel in topics, metrics and logs.
	Name string `yaml:"name,omitempty"`
	// Periods lists the rows of the table in chronological order.
	Periods []Period `yaml:"periods"`
}

// Period is the YAML form of schedule.Period.
type Period struct {
	// Start is the inclusive start, written as HH:MM or HH:MM:SS.
	Start Clock `yaml:"start"`
	// End is the inclusive end; "24:00" closes the table.
	End Clock `yaml:"end"`
	// Intensity is the level held during the period, 0 through 255.
	Intensity int `yaml:"intensity"`
}

// Clock is a time of day read from a "HH:MM" or "HH:MM:SS" YAML scalar.
type Clock schedule.TimeOfDay

// errClockNotScalar is returned when a clock is not a YAML scalar.
var errClockNotScalar = errors.New("time of day must be a string like \"08:30\"")

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Clock) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %w", value.Line, errClockNotScalar)
	}

	t, err := schedule.ParseTimeOfDay(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*c = Clock(t)

	return nil
}

// ParseSchedule decodes a YAML schedule and validates it.
func ParseSchedule(contents []byte) (*schedule.ChannelSet, error) {
	var doc Schedule
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schedule: %w", err)
	}

	return doc.ChannelSet()
}

// LoadSchedule reads and validates the schedule stored at path.
func LoadSchedule(path string) (*schedule.ChannelSet, error) {
	if path == "" {
		path = DefaultScheduleFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}

	return ParseSchedule(contents)
}

// ChannelSet converts the document into a validated schedule.ChannelSet.
func (s *Schedule) ChannelSet() (*schedule.ChannelSet, error) {
	channels := make([]schedule.ChannelSchedule, len(s.Channels))

	for i, channel := range s.Channels {
		periods := make([]schedule.Period, len(channel.Periods))
		for j, period := range channel.Periods {
			periods[j] = schedule.Period{
				Start:     schedule.TimeOfDay(period.Start),
				End:       schedule.TimeOfDay(period.End),
				Intensity: period.Intensity,
			}
		}

		channels[i] = schedule.ChannelSchedule{
			Name:    channel.Name,
			Periods: periods,
		}
	}

	return schedule.NewChannelSet(channels...)
}
