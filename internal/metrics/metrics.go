// Package metrics exposes resolved channel levels as prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oshokin/light-scheduler/internal/domain/schedule"
)

const namespace = "light_scheduler"

// Collector owns a private registry with the scheduler metrics.
// It implements output.Driver.
type Collector struct {
	// registry holds only the collectors below plus runtime metrics.
	registry *prometheus.Registry
	// intensity is the latest level per channel name.
	intensity *prometheus.GaugeVec
	// timeOfDay is the query time of the latest snapshot, in seconds.
	timeOfDay prometheus.Gauge
	// resolutions counts written snapshots.
	resolutions prometheus.Counter
	// failures counts snapshots that an output driver rejected.
	failures prometheus.Counter
}

// New creates a Collector with process and Go runtime metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		intensity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "channel_intensity",
			Help:      "Latest resolved intensity per channel, 0 to 255.",
		}, []string{"channel"}),
		timeOfDay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "time_of_day_seconds",
			Help:      "Time of day the latest snapshot was resolved for.",
		}),
		resolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Number of snapshots resolved.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_failures_total",
			Help:      "Number of snapshots at least one output driver failed to deliver.",
		}),
	}

	c.registry.MustRegister(
		c.intensity,
		c.timeOfDay,
		c.resolutions,
		c.failures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Write records a snapshot.
func (c *Collector) Write(_ context.Context, names []string, snapshot schedule.Snapshot) error {
	for i, level := range snapshot.Levels {
		name := schedule.DefaultChannelName(i)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}

		c.intensity.WithLabelValues(name).Set(float64(level))
	}

	c.timeOfDay.Set(float64(snapshot.Time))
	c.resolutions.Inc()

	return nil
}

// OutputFailed counts a snapshot that could not be delivered.
func (c *Collector) OutputFailed() {
	c.failures.Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
