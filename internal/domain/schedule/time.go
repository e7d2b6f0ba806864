package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is the number of seconds elapsed since midnight.
type TimeOfDay int

const (
	// EndOfDay is 24:00, the only boundary value allowed as a period end.
	EndOfDay TimeOfDay = 24 * 60 * 60

	secondsPerHour   = 3600
	secondsPerMinute = 60
)

var (
	// ErrTimeOutOfRange is returned for times outside [00:00:00, 24:00:00).
	ErrTimeOutOfRange = errors.New("time of day out of range")
	// errBadClockFormat is returned when a clock string is not HH:MM or HH:MM:SS.
	errBadClockFormat = errors.New("expected HH:MM or HH:MM:SS")
)

// ToSeconds converts a wall-clock reading into a TimeOfDay.
func ToSeconds(hours, minutes, seconds int) TimeOfDay {
	return TimeOfDay(hours*secondsPerHour + minutes*secondsPerMinute + seconds)
}

// FromTime takes the wall-clock reading of t as is, without any zone conversion.
func FromTime(t time.Time) TimeOfDay {
	return ToSeconds(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS". "24:00" yields EndOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("parse %q: %w", s, errBadClockFormat)
	}

	values := make([]int, 3)

	for i, part := range parts {
		if len(part) != 2 || !isDigit(part[0]) || !isDigit(part[1]) {
			return 0, fmt.Errorf("parse %q: %w", s, errBadClockFormat)
		}

		values[i] = int(part[0]-'0')*10 + int(part[1]-'0')
	}

	hours, minutes, seconds := values[0], values[1], values[2]
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("parse %q: %w", s, ErrTimeOutOfRange)
	}

	t := ToSeconds(hours, minutes, seconds)
	if t > EndOfDay {
		return 0, fmt.Errorf("parse %q: %w", s, ErrTimeOutOfRange)
	}

	return t, nil
}

// isDigit reports whether c is an ASCII digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Clock splits the value back into hours, minutes and seconds.
func (t TimeOfDay) Clock() (hours, minutes, seconds int) {
	v := int(t)

	return v / secondsPerHour, v % secondsPerHour / secondsPerMinute, v % secondsPerMinute
}

// Validate reports whether t can be used as a query time.
func (t TimeOfDay) Validate() error {
	if t < 0 || t >= EndOfDay {
		return fmt.Errorf("%d seconds: %w", int(t), ErrTimeOutOfRange)
	}

	return nil
}

// String renders the value as HH:MM:SS.
func (t TimeOfDay) String() string {
	h, m, s := t.Clock()

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
