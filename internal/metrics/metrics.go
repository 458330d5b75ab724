// Package metrics exposes Prometheus metrics for the status page backends.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "homeproxy"

var (
	instanceRunning = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "instance",
		Name:      "running",
		Help:      "Whether a HomeProxy backend instance was running at the last status load (1/0)",
	}, []string{"instance"})

	geodataUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "geodata",
		Name:      "updates_total",
		Help:      "GeoData update attempts by result",
	}, []string{"result"})

	geodataVersionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "geodata",
		Name:      "version_failures_total",
		Help:      "get_version runs that produced no version",
	})

	logTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "logview",
		Name:      "ticks_total",
		Help:      "Live log poll ticks by read outcome and whether they were applied",
	}, []string{"outcome", "applied"})
)

// SetInstanceRunning records the running flag of an instance.
func SetInstanceRunning(instance string, running bool) {
	v := 0.0
	if running {
		v = 1
	}
	instanceRunning.WithLabelValues(instance).Set(v)
}

// IncGeoDataUpdate counts one update attempt.
func IncGeoDataUpdate(result string) {
	geodataUpdates.WithLabelValues(result).Inc()
}

// IncGeoDataVersionFailure counts one failed version lookup.
func IncGeoDataVersionFailure() {
	geodataVersionFailures.Inc()
}

// IncLogTick counts one live log tick.
func IncLogTick(outcome string, applied bool) {
	a := "false"
	if applied {
		a = "true"
	}
	logTicks.WithLabelValues(outcome, a).Inc()
}
