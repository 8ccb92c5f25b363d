package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

var (
	TopupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_topup_total",
		Help: "Topup requests by operator and outcome code",
	}, []string{"operator", "status", "code"})

	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_dispatch_duration_seconds",
		Help:    "Operator charge latency by outcome",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"operator", "outcome"})

	SuspensionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_suspensions_total",
		Help: "Transactions suspended pending reconciliation",
	}, []string{"operator"})

	NoticesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_suspension_notices_total",
		Help: "Suspension notices handed to the reconciliation topic",
	}, []string{"result"})

	EventQueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gateway_event_queue_depth",
		Help: "Events waiting in the in-process bus, by type",
	}, []string{"type"})

	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_resolutions_total",
		Help: "Resolution records consumed from the reconciliation actor",
	}, []string{"result"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5, 30},
	}, []string{"method", "endpoint"})
)

// Dispatch outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeNOK          = "nok"
	OutcomeNotAvailable = "not_available"
	OutcomeSuspended    = "suspended"
)

func ObserveTopup(operator domain.OperatorID, resp domain.Response) {
	code := resp.Code
	if resp.Status == domain.ResponseStatusOK {
		code = int64(domain.OK)
	}
	TopupTotal.WithLabelValues(operator.String(), resp.Status, strconv.FormatInt(code, 10)).Inc()
}

func ObserveDispatch(operator domain.OperatorID, outcome string, elapsed time.Duration) {
	DispatchDuration.WithLabelValues(operator.String(), outcome).Observe(elapsed.Seconds())
	if outcome == OutcomeSuspended {
		SuspensionsTotal.WithLabelValues(operator.String()).Inc()
	}
}

func ObserveHTTP(method, endpoint string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}
