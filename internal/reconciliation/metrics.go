package reconciliation

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/plugin/kprom"
)

// ClientMetrics holds one kprom hook set per kafka client. kprom registers
// its collectors when a client is created, so a hook set must never be
// attached to two clients. Both sets report into a single registry.
type ClientMetrics struct {
	registry *prometheus.Registry
	Producer *kprom.Metrics
	Consumer *kprom.Metrics
}

func NewClientMetrics(namespace string) *ClientMetrics {
	reg := prometheus.NewRegistry()
	return &ClientMetrics{
		registry: reg,
		Producer: kprom.NewMetrics(namespace, kprom.Registry(reg), kprom.Subsystem("producer")),
		Consumer: kprom.NewMetrics(namespace, kprom.Registry(reg), kprom.Subsystem("consumer")),
	}
}

// Handler serves the producer and consumer series together.
func (m *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
