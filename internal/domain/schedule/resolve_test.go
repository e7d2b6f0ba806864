package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestResolve_DaylightScenario walks the two-peak table through its key instants.
func TestResolve_DaylightScenario(t *testing.T) {
	t.Parallel()

	set, err := NewChannelSet(reefSchedule())
	require.NoError(t, err)

	cases := map[TimeOfDay]uint8{
		0:                     0,
		ToSeconds(7, 59, 59):  0,
		hm(8, 0):              0,
		hm(8, 15):             127,
		hm(8, 30):             255,
		hm(11, 0):             255,
		hm(11, 5):             128,
		hm(11, 10):            0,
		hm(20, 0):             255,
		ToSeconds(23, 59, 59): 0,
	}

	for at, want := range cases {
		snapshot, err := set.Resolve(at)
		require.NoError(t, err, at.String())
		require.Equal(t, at, snapshot.Time)
		require.Equal(t, []uint8{want}, snapshot.Levels, at.String())
	}
}

// TestResolve_TruncatesTowardZero pins the integer policy in both fade directions.
func TestResolve_TruncatesTowardZero(t *testing.T) {
	t.Parallel()

	set, err := NewChannelSet(ChannelSchedule{Periods: []Period{
		{Start: 0, End: hm(1, 0), Intensity: 10},
		{Start: ToSeconds(1, 0, 3), End: hm(2, 0), Intensity: 0},
		{Start: ToSeconds(2, 0, 3), End: EndOfDay, Intensity: 10},
	}})
	require.NoError(t, err)

	// Down: 10 + 1*(-10)/3 = 10 - 3 = 7 (flooring would give 6).
	level, err := set.ResolveChannel(0, ToSeconds(1, 0, 1))
	require.NoError(t, err)
	require.EqualValues(t, 7, level)

	// Up: 0 + 1*10/3 = 3.
	level, err = set.ResolveChannel(0, ToSeconds(2, 0, 1))
	require.NoError(t, err)
	require.EqualValues(t, 3, level)
}

// TestResolve_AlwaysOnIgnoresPlaceholders checks the single-period table over the whole day.
func TestResolve_AlwaysOnIgnoresPlaceholders(t *testing.T) {
	t.Parallel()

	set, err := NewChannelSet(alwaysOnSchedule())
	require.NoError(t, err)

	for at := TimeOfDay(0); at < EndOfDay; at++ {
		level, err := set.ResolveChannel(0, at)
		require.NoError(t, err)
		require.EqualValues(t, 255, level)
	}
}

// TestResolve_WholeDayProperties checks range, boundaries and monotonic fades for every second.
func TestResolve_WholeDayProperties(t *testing.T) {
	t.Parallel()

	channel := reefSchedule()

	set, err := NewChannelSet(channel)
	require.NoError(t, err)

	var previous uint8

	for at := TimeOfDay(0); at < EndOfDay; at++ {
		level, err := set.ResolveChannel(0, at)
		require.NoError(t, err)

		for i, period := range channel.Periods {
			if at >= period.Start && at <= period.End {
				require.EqualValues(t, period.Intensity, level, at.String())
			}

			if i+1 < len(channel.Periods) && at > period.End && at < channel.Periods[i+1].Start {
				if channel.Periods[i+1].Intensity > period.Intensity {
					require.GreaterOrEqual(t, level, previous, at.String())
				} else {
					require.LessOrEqual(t, level, previous, at.String())
				}
			}
		}

		previous = level
	}
}

// TestResolve_Idempotent ensures repeated calls yield identical snapshots.
func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	set, err := NewChannelSet(reefSchedule(), alwaysOnSchedule())
	require.NoError(t, err)

	first, err := set.Resolve(hm(8, 20))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := set.Resolve(hm(8, 20))
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

// TestResolve_ChannelsAreIndependent resolves several channels in one call.
func TestResolve_ChannelsAreIndependent(t *testing.T) {
	t.Parallel()

	set, err := NewChannelSet(reefSchedule(), alwaysOnSchedule())
	require.NoError(t, err)

	snapshot, err := set.Resolve(hm(8, 15))
	require.NoError(t, err)
	require.Equal(t, []uint8{127, 255}, snapshot.Levels)

	clone := snapshot.Clone()
	clone.Levels[0] = 1
	require.EqualValues(t, 127, snapshot.Levels[0])
}

// TestResolve_RejectsOutOfRangeTime fails fast instead of wrapping the time.
func TestResolve_RejectsOutOfRangeTime(t *testing.T) {
	t.Parallel()

	set, err := NewChannelSet(reefSchedule())
	require.NoError(t, err)

	for _, at := range []TimeOfDay{-1, EndOfDay, EndOfDay + 3600} {
		_, err = set.Resolve(at)
		require.ErrorIs(t, err, ErrTimeOutOfRange)

		_, err = set.ResolveChannel(0, at)
		require.ErrorIs(t, err, ErrTimeOutOfRange)
	}
}

// TestResolveInto validates the caller buffer and leaves it intact on error.
func TestResolveInto(t *testing.T) {
	t.Parallel()

	set, err := NewChannelSet(reefSchedule(), alwaysOnSchedule())
	require.NoError(t, err)

	dst := []uint8{9, 9}
	require.NoError(t, set.ResolveInto(hm(9, 0), dst))
	require.Equal(t, []uint8{255, 255}, dst)

	dst = []uint8{9, 9}
	require.ErrorIs(t, set.ResolveInto(EndOfDay, dst), ErrTimeOutOfRange)
	require.Equal(t, []uint8{9, 9}, dst)

	require.ErrorIs(t, set.ResolveInto(hm(9, 0), make([]uint8, 3)), ErrBufferSize)

	_, err = set.ResolveChannel(2, hm(9, 0))
	require.ErrorIs(t, err, ErrUnknownChannel)
}
