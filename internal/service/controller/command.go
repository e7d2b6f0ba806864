package controller

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"

	api "github.com/oshokin/light-scheduler/internal/api/grpc/lighting"
	"github.com/oshokin/light-scheduler/internal/config"
	"github.com/oshokin/light-scheduler/internal/logger"
	"github.com/oshokin/light-scheduler/internal/metrics"
	"github.com/oshokin/light-scheduler/internal/output"
	"github.com/oshokin/light-scheduler/internal/repository/snapshot"
	"github.com/oshokin/light-scheduler/internal/service/common"
	"github.com/oshokin/light-scheduler/internal/version"
)

// Options controls the light-controller process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file. Defaults apply when it is missing.
	ConfigPath string
	// ScheduleFile overrides the schedule path from the settings.
	ScheduleFile string
	// StateFile overrides the snapshot path from the settings.
	StateFile string
	// GRPCAddress overrides the gRPC listen address from the settings.
	GRPCAddress string
	// PollInterval overrides the polling cadence from the settings.
	PollInterval time.Duration
	// Once resolves and delivers a single snapshot, then returns.
	Once bool
	// SkipInstanceCheck allows several controllers on one host.
	SkipInstanceCheck bool
	// Now replaces the wall clock; time.Now when nil.
	Now func() time.Time
}

const (
	// metricsPath is where the prometheus handler is mounted.
	metricsPath = "/metrics"
	// readHeaderTimeout bounds slow metrics clients.
	readHeaderTimeout = 5 * time.Second
)

// Run loads the schedule and drives the outputs until ctx is canceled.
// An invalid schedule is fatal: the controller never runs without a valid one.
//
//nolint:cyclop,funlen // Startup wiring reads best as one sequence.
func Run(ctx context.Context, opts *Options) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	baseLogger, err := logger.Build(settings.LogLevel, settings.LogFormat)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	ctx = logger.WithName(logger.ToContext(ctx, baseLogger), "light-controller")

	set, err := config.LoadSchedule(settings.ScheduleFile)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}

	logger.InfoKV(ctx, "Starting controller", version.Fields()...)
	logger.InfoKV(ctx, "Schedule loaded", "schedule_file", settings.ScheduleFile, "channels", set.Names())

	if !opts.SkipInstanceCheck {
		if err = common.EnsureSingleInstance(); err != nil {
			return err
		}
	}

	drivers := output.Multi{output.NewLogDriver()}

	var collector *metrics.Collector
	if settings.MetricsAddress != "" {
		collector = metrics.New()
		drivers = append(drivers, collector)
	}

	if settings.MQTT.Enabled() {
		publisher, dialErr := output.DialMQTT(ctx, &settings.MQTT, settings.Timeout)
		if dialErr != nil {
			return fmt.Errorf("initialise mqtt output: %w", dialErr)
		}

		mqttDriver := output.NewMQTTDriver(publisher, settings.MQTT.TopicPrefix)
		defer mqttDriver.Close()

		drivers = append(drivers, mqttDriver)
	}

	svc := newService(set, drivers, snapshot.NewFileRepository(settings.StateFile), opts.Now)
	if collector != nil {
		svc.failures = collector
	}

	svc.restore(ctx)

	if opts.Once {
		// A single run always reports the levels it delivered.
		return svc.Tick(logger.EnsureLevel(ctx, zapcore.InfoLevel))
	}

	var (
		wg      sync.WaitGroup
		serveCh = make(chan error, 2)
	)

	// Registered first so it runs after the servers below are stopped.
	defer wg.Wait()

	if settings.GRPCAddress != "" {
		grpcServer, lis, listenErr := listenGRPC(ctx, settings.GRPCAddress, svc)
		if listenErr != nil {
			return listenErr
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			if serveErr := grpcServer.Serve(lis); serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
				serveCh <- fmt.Errorf("serve gRPC: %w", serveErr)
			}
		}()

		defer func() {
			logger.Info(ctx, "Shutting down gRPC server")
			grpcServer.GracefulStop()
		}()

		logger.InfoKV(ctx, "Schedule service listening", "listen_address", lis.Addr().String())
	}

	if collector != nil {
		httpServer, lis, listenErr := listenMetrics(ctx, settings.MetricsAddress, collector)
		if listenErr != nil {
			return listenErr
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			if serveErr := httpServer.Serve(lis); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				serveCh <- fmt.Errorf("serve metrics: %w", serveErr)
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settings.Timeout)
			defer cancel()

			_ = httpServer.Shutdown(shutdownCtx)
		}()

		logger.InfoKV(ctx, "Metrics listening", "listen_address", lis.Addr().String(), "path", metricsPath)
	}

	return loop(ctx, svc, settings.PollInterval, serveCh)
}

// loop ticks immediately and then every interval until ctx ends or a server fails.
func loop(ctx context.Context, svc *service, interval time.Duration, serveCh <-chan error) error {
	logger.InfoKV(ctx, "Control loop started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := svc.Tick(ctx); err != nil {
			logger.ErrorKV(ctx, "Tick failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case err := <-serveCh:
			return err
		case <-ticker.C:
		}
	}
}

// loadSettings reads the settings file and applies command line overrides.
func loadSettings(opts *Options) (*config.Config, error) {
	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.ScheduleFile != "" {
		settings.ScheduleFile = opts.ScheduleFile
	}

	if opts.StateFile != "" {
		settings.StateFile = opts.StateFile
	}

	if opts.GRPCAddress != "" {
		settings.GRPCAddress = opts.GRPCAddress
	}

	if opts.PollInterval > 0 {
		settings.PollInterval = opts.PollInterval
	}

	if err = config.Validate(settings); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return settings, nil
}

// listenGRPC binds the schedule service.
func listenGRPC(ctx context.Context, address string, svc api.Service) (*grpc.Server, net.Listener, error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterScheduleServiceServer(grpcServer, api.NewServer(svc))

	return grpcServer, lis, nil
}

// listenMetrics binds the prometheus endpoint.
func listenMetrics(ctx context.Context, address string, collector *metrics.Collector) (*http.Server, net.Listener, error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, collector.Handler())

	return &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}, lis, nil
}
