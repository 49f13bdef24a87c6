package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	protocolRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "conectapro",
			Subsystem: "protocol",
			Name:      "requests_total",
			Help:      "Commands sent to the records server by outcome.",
		},
		[]string{"command", "outcome"},
	)
	protocolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "conectapro",
			Subsystem: "protocol",
			Name:      "request_duration_seconds",
			Help:      "Round trip time of one command in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command", "outcome"},
	)
	replyBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "conectapro",
			Subsystem: "protocol",
			Name:      "reply_bytes",
			Help:      "Size of raw replies read from the records server.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 7),
		},
		[]string{"command"},
	)
	accountMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "conectapro",
			Subsystem: "accounts",
			Name:      "mutations_total",
			Help:      "Credential store mutations by operation and result.",
		},
		[]string{"op", "result"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "conectapro",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests on the diagnostics endpoint.",
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(protocolRequests, protocolDuration, replyBytes, accountMutations, httpRequests)
	})
}

// RecordRequest records one protocol round trip. outcome is a short label
// such as "data", "error", "refused" or "transport".
func RecordRequest(command, outcome string, duration time.Duration) {
	RegisterMetrics()
	protocolRequests.WithLabelValues(command, outcome).Inc()
	protocolDuration.WithLabelValues(command, outcome).Observe(duration.Seconds())
}

func RecordReplySize(command string, size int) {
	RegisterMetrics()
	replyBytes.WithLabelValues(command).Observe(float64(size))
}

func RecordAccountMutation(op string, err error) {
	RegisterMetrics()
	result := "ok"
	if err != nil {
		result = "error"
	}
	accountMutations.WithLabelValues(op, result).Inc()
}

func RecordHTTPRequest(method, path string, status int) {
	RegisterMetrics()
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
