package query

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	api "github.com/oshokin/light-scheduler/internal/api/grpc/lighting"
	"github.com/oshokin/light-scheduler/internal/config"
	"github.com/oshokin/light-scheduler/internal/domain/schedule"
	"github.com/oshokin/light-scheduler/internal/repository/snapshot"
)

// fixedService serves a constant schedule.
type fixedService struct {
	// set is the schedule behind both methods.
	set *schedule.ChannelSet
}

// Snapshot resolves noon.
func (f *fixedService) Snapshot(ctx context.Context) *snapshot.Record {
	record, _ := f.Resolve(ctx, schedule.ToSeconds(12, 0, 0))

	return record
}

// Resolve resolves t.
func (f *fixedService) Resolve(_ context.Context, t schedule.TimeOfDay) (*snapshot.Record, error) {
	snap, err := f.set.Resolve(t)
	if err != nil {
		return nil, err
	}

	return &snapshot.Record{Names: f.set.Names(), Snapshot: snap}, nil
}

// startServer runs the schedule service on a loopback port.
func startServer(t *testing.T) string {
	t.Helper()

	set, err := schedule.NewChannelSet(schedule.ChannelSchedule{
		Name: "white",
		Periods: []schedule.Period{
			{Start: 0, End: schedule.ToSeconds(8, 0, 0), Intensity: 0},
			{Start: schedule.ToSeconds(8, 30, 0), End: schedule.EndOfDay, Intensity: 255},
		},
	})
	require.NoError(t, err)

	lc := net.ListenConfig{}
	lis, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := grpc.NewServer()
	api.RegisterScheduleServiceServer(server, api.NewServer(&fixedService{set: set}))

	go func() {
		_ = server.Serve(lis)
	}()

	t.Cleanup(server.Stop)

	return lis.Addr().String()
}

// TestRun_LatestAndResolve queries the latest snapshot and a specific time.
func TestRun_LatestAndResolve(t *testing.T) {
	t.Parallel()

	address := startServer(t)
	configPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(configPath, &config.Config{GRPCAddress: address}))

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), &Options{ConfigPath: configPath}, &out))
	require.Equal(t, "white  255\n", out.String())

	out.Reset()
	require.NoError(t, Run(context.Background(), &Options{
		ConfigPath:    filepath.Join(t.TempDir(), "missing.yaml"),
		ServerAddress: address,
		Time:          "08:15",
	}, &out))
	require.Equal(t, "white  127\n", out.String())

	require.Error(t, Run(context.Background(), &Options{ServerAddress: address, Time: "later"}, &out))
}

// TestRun_NoAddress fails without a controller address.
func TestRun_NoAddress(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := Run(context.Background(), &Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}, &out)
	require.Error(t, err)
}
