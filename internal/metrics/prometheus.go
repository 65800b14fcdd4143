package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus holds the counters tracked across runs.
type Prometheus struct {
	Runs         *prometheus.CounterVec
	Transactions *prometheus.CounterVec
	Records      *prometheus.CounterVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "woodpecker",
				Name:      "runs",
			}, []string{"source", "status"}),
		Transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "woodpecker",
				Name:      "transactions",
			}, []string{"kind"}),
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "woodpecker",
				Name:      "records",
			}, []string{"result"}),
	}
}
