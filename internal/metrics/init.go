package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Observer is the process-wide metrics instance.
var Observer = NewPrometheusMetrics()

func init() {
	prometheus.MustRegister(Observer.Runs, Observer.Transactions, Observer.Records)
}

// Serve exposes the /metrics endpoint on the given port.
// A zero port disables the endpoint.
func Serve(port int) {
	if port == 0 {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
		if err != nil {
			log.Error().Err(err).Int("port", port).Msg("metrics server stopped")
		}
	}()
}
