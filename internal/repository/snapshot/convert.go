package snapshot

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/light-scheduler/internal/domain/schedule"
)

// Field names of the snapshot Struct.
const (
	fieldTime      = "time"
	fieldSeconds   = "seconds"
	fieldChannels  = "channels"
	fieldName      = "name"
	fieldIntensity = "intensity"
)

// ToStruct converts a record into
// {"time": "HH:MM:SS", "seconds": n, "channels": [{"name": ..., "intensity": ...}]}.
func ToStruct(record *Record) (*structpb.Struct, error) {
	if record == nil {
		return nil, fmt.Errorf("nil record: %w", ErrMalformed)
	}

	channels := make([]any, len(record.Snapshot.Levels))

	for i, level := range record.Snapshot.Levels {
		name := schedule.DefaultChannelName(i)
		if i < len(record.Names) && record.Names[i] != "" {
			name = record.Names[i]
		}

		channels[i] = map[string]any{
			fieldName:      name,
			fieldIntensity: int(level),
		}
	}

	message, err := structpb.NewStruct(map[string]any{
		fieldTime:     record.Snapshot.Time.String(),
		fieldSeconds:  int(record.Snapshot.Time),
		fieldChannels: channels,
	})
	if err != nil {
		return nil, fmt.Errorf("build snapshot struct: %w", err)
	}

	return message, nil
}

// FromStruct is the inverse of ToStruct.
func FromStruct(message *structpb.Struct) (*Record, error) {
	fields := message.GetFields()

	seconds, ok := wholeNumber(fields[fieldSeconds], int(schedule.EndOfDay)-1)
	if !ok {
		return nil, fmt.Errorf("%s field: %w", fieldSeconds, ErrMalformed)
	}

	at := schedule.TimeOfDay(seconds)

	list := fields[fieldChannels].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%s field: %w", fieldChannels, ErrMalformed)
	}

	record := &Record{
		Names:    make([]string, 0, len(list.GetValues())),
		Snapshot: schedule.Snapshot{Time: at, Levels: make([]uint8, 0, len(list.GetValues()))},
	}

	for i, value := range list.GetValues() {
		channel := value.GetStructValue().GetFields()

		intensity, ok := wholeNumber(channel[fieldIntensity], schedule.MaxIntensity)
		if !ok {
			return nil, fmt.Errorf("channel %d intensity: %w", i, ErrMalformed)
		}

		record.Names = append(record.Names, channel[fieldName].GetStringValue())
		record.Snapshot.Levels = append(record.Snapshot.Levels, uint8(intensity))
	}

	return record, nil
}

// wholeNumber returns value as an int when it is a number without a fraction
// in [0, maximum].
func wholeNumber(value *structpb.Value, maximum int) (int, bool) {
	number, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}

	v := number.NumberValue
	if v < 0 || v > float64(maximum) || v != math.Trunc(v) {
		return 0, false
	}

	return int(v), true
}
