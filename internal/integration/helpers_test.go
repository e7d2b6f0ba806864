package integration

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/light-scheduler/internal/config"
	"github.com/oshokin/light-scheduler/internal/service/controller"
)

// scheduleYAML fades white in from 08:00 to 08:30 and keeps moon at full.
const scheduleYAML = `
channels:
  - name: white
    periods:
      - {start: "00:00", end: "08:00", intensity: 0}
      - {start: "08:30", end: "24:00", intensity: 255}
  - name: moon
    periods:
      - {start: "00:00", end: "24:00", intensity: 255}
`

// environment describes one running controller.
type environment struct {
	// configPath is the settings file shared with the CLI side.
	configPath string
	// statePath is where the controller writes its snapshot.
	statePath string
	// grpcAddress is the schedule service endpoint.
	grpcAddress string
	// metricsAddress is the prometheus endpoint.
	metricsAddress string
}

// reservePort returns a free loopback address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

// startController writes fixtures and runs a controller frozen at the given wall time.
// The returned function stops it and waits for Run to return.
func startController(t *testing.T, at time.Time) (*environment, func()) {
	t.Helper()

	dir := t.TempDir()
	env := &environment{
		configPath:     filepath.Join(dir, "settings.yaml"),
		statePath:      filepath.Join(dir, "state.json"),
		grpcAddress:    reservePort(t),
		metricsAddress: reservePort(t),
	}

	schedulePath := filepath.Join(dir, "schedule.yaml")
	require.NoError(t, os.WriteFile(schedulePath, []byte(scheduleYAML), config.DefaultFilePermissions))
	require.NoError(t, config.Save(env.configPath, &config.Config{
		ScheduleFile:   schedulePath,
		StateFile:      env.statePath,
		PollInterval:   20 * time.Millisecond,
		Timeout:        2 * time.Second,
		LogLevel:       "error",
		GRPCAddress:    env.grpcAddress,
		MetricsAddress: env.metricsAddress,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- controller.Run(ctx, &controller.Options{
			ConfigPath:        env.configPath,
			SkipInstanceCheck: true,
			Now:               func() time.Time { return at },
		})
	}()

	// The state file appears after the first tick, once both servers are up.
	require.Eventually(t, func() bool {
		_, err := os.Stat(env.statePath)
		return err == nil
	}, 3*time.Second, 10*time.Millisecond)

	return env, func() {
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("controller did not stop")
		}
	}
}
