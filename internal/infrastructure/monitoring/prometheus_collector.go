package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	connectionsActive   prometheus.Gauge
	connectionsTotal    prometheus.Counter
	handshakeRejections *prometheus.CounterVec

	messagesRelayed *prometheus.CounterVec
	messageErrors   prometheus.Counter
	signalsRelayed  *prometheus.CounterVec
}

// NewPrometheusCollector registers the collectors on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)

	return &PrometheusCollector{
		connectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "menthub_realtime_connections_active",
			Help: "Number of currently open realtime connections",
		}),

		connectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "menthub_realtime_connections_total",
			Help: "Total number of realtime connections established",
		}),

		handshakeRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "menthub_realtime_handshake_rejections_total",
			Help: "Total number of rejected realtime handshakes",
		}, []string{"reason"}),

		messagesRelayed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "menthub_messages_relayed_total",
			Help: "Total number of chat messages persisted and relayed",
		}, []string{"scope"}),

		messageErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "menthub_message_errors_total",
			Help: "Total number of message persistence failures surfaced to senders",
		}),

		signalsRelayed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "menthub_call_signals_relayed_total",
			Help: "Total number of call signaling payloads relayed",
		}, []string{"type"}),
	}
}

func (p *PrometheusCollector) RecordConnected() {
	p.connectionsActive.Inc()
	p.connectionsTotal.Inc()
}

func (p *PrometheusCollector) RecordDisconnected() {
	p.connectionsActive.Dec()
}

func (p *PrometheusCollector) RecordHandshakeRejected(reason string) {
	p.handshakeRejections.WithLabelValues(reason).Inc()
}

func (p *PrometheusCollector) RecordMessageRelayed(scope string) {
	p.messagesRelayed.WithLabelValues(scope).Inc()
}

func (p *PrometheusCollector) RecordMessageError() {
	p.messageErrors.Inc()
}

func (p *PrometheusCollector) RecordSignalRelayed(signalType string) {
	p.signalsRelayed.WithLabelValues(signalType).Inc()
}
