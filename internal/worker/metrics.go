package worker

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nlpd",
			Subsystem: "worker",
			Name:      "requests_total",
			Help:      "Requests answered by workers, by outcome (ok, inference_error, abandoned)",
		},
		[]string{"kind", "outcome"},
	)

	inferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nlpd",
			Subsystem: "worker",
			Name:      "inference_duration_seconds",
			Help:      "Duration of single inference calls in seconds",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	queueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "nlpd",
			Subsystem: "worker",
			Name:      "queue_depth",
			Help:      "Requests waiting in worker queues",
		},
		[]string{"kind"},
	)

	workersAlive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "nlpd",
			Subsystem: "worker",
			Name:      "alive",
			Help:      "Workers with a loaded model that are still serving",
		},
		[]string{"kind"},
	)

	loadFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nlpd",
			Subsystem: "worker",
			Name:      "load_failures_total",
			Help:      "Total model load failures",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, inferenceDuration, queueDepth, workersAlive, loadFailuresTotal)
}
