// Package exporters serves collected metrics over HTTP.
package exporters

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler returns the Prometheus handler for the default registry, which
// holds every promauto metric in package metrics.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}
