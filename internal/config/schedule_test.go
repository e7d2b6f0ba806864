package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/light-scheduler/internal/domain/schedule"
)

const reefYAML = `
channels:
  - name: white
    periods:
      - {start: "00:00", end: "08:00", intensity: 0}
      - {start: "08:30", end: "11:00", intensity: 255}
      - {start: "11:10", end: "13:00", intensity: 0}
      - {start: "13:10", end: "20:00", intensity: 255}
      - {start: "20:30", end: "24:00", intensity: 0}
  - name: moon
    periods:
      - {start: "00:00", end: "24:00", intensity: 255}
      - {start: "00:00", end: "00:00", intensity: 0}
      - {start: "00:00", end: "00:00", intensity: 0}
`

// TestParseSchedule decodes a schedule and resolves it.
func TestParseSchedule(t *testing.T) {
	t.Parallel()

	set, err := ParseSchedule([]byte(reefYAML))
	require.NoError(t, err)
	require.Equal(t, []string{"white", "moon"}, set.Names())

	snapshot, err := set.Resolve(schedule.ToSeconds(8, 15, 0))
	require.NoError(t, err)
	require.Equal(t, []uint8{127, 255}, snapshot.Levels)
}

// TestParseSchedule_Errors rejects malformed documents and invalid tables.
func TestParseSchedule_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParseSchedule([]byte("channels: [{periods: [{start: 8:00, end: \"24:00\"}]}]"))
	require.Error(t, err)

	_, err = ParseSchedule([]byte("channels: [{periods: [{start: [1], end: \"24:00\"}]}]"))
	require.Error(t, err)

	_, err = ParseSchedule([]byte("channels: [{periods: [{start: \"00:00\", end: \"23:00\", intensity: 1}]}]"))
	require.ErrorIs(t, err, schedule.ErrInvalidSchedule)

	_, err = ParseSchedule([]byte("channels: []"))
	require.ErrorIs(t, err, schedule.ErrInvalidSchedule)
}

// TestLoadSchedule reads a schedule file into a validated set.
func TestLoadSchedule(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schedule.yaml")
	contents := `
channels:
  - name: blue
    periods:
      - {start: "00:00", end: "09:00", intensity: 10}
      - {start: "09:00:30", end: "24:00", intensity: 200}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	set, err := LoadSchedule(path)
	require.NoError(t, err)
	require.Equal(t, []string{"blue"}, set.Names())

	snapshot, err := set.Resolve(schedule.ToSeconds(9, 0, 30))
	require.NoError(t, err)
	require.Equal(t, []uint8{200}, snapshot.Levels)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("channels: [{periods: [{start: \"00:00\", end: \"00:10\"}]}]"), DefaultFilePermissions))

	_, err = LoadSchedule(invalid)
	require.ErrorIs(t, err, schedule.ErrInvalidSchedule)

	_, err = LoadSchedule(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
