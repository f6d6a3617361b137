// Package metrics exposes Prometheus collectors for the panel core and the
// surface sync protocol. Collectors register with the default registry and
// are served by promhttp from the HTTP layer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lightd",
			Subsystem: "surface",
			Name:      "messages_sent_total",
			Help:      "Messages posted to rendering surfaces by type",
		},
		[]string{"type"},
	)

	messagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lightd",
			Subsystem: "surface",
			Name:      "messages_received_total",
			Help:      "Accepted messages from rendering surfaces by type",
		},
		[]string{"type"},
	)

	messagesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lightd",
			Subsystem: "surface",
			Name:      "messages_dropped_total",
			Help:      "Inbound messages dropped by reason",
		},
		[]string{"reason"},
	)

	pendingOverwrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lightd",
			Subsystem: "surface",
			Name:      "pending_image_overwrites_total",
			Help:      "Buffered images replaced by a newer one before the handshake",
		},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lightd",
			Subsystem: "panel",
			Name:      "transitions_total",
			Help:      "Slot controller transitions by operation and result",
		},
		[]string{"op", "result"},
	)

	slotCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lightd",
			Subsystem: "panel",
			Name:      "slots",
			Help:      "Number of slots in the most recently mutated store",
		},
	)
)

func init() {
	prometheus.MustRegister(messagesSent, messagesReceived, messagesDropped, pendingOverwrites, transitions, slotCount)
}

// Drop reasons.
const (
	ReasonUntrustedOrigin  = "untrusted_origin"
	ReasonMalformedMessage = "malformed_message"
	ReasonUnknownType      = "unknown_type"
	ReasonClosed           = "closed"
)

func MessageSent(typ string)     { messagesSent.WithLabelValues(typ).Inc() }
func MessageReceived(typ string) { messagesReceived.WithLabelValues(typ).Inc() }

func MessageDropped(reason string) {
	if reason == "" {
		reason = "unspecified"
	}
	messagesDropped.WithLabelValues(reason).Inc()
}

func PendingImageOverwritten() { pendingOverwrites.Inc() }

// Transition records one controller operation; err==nil counts as "ok".
func Transition(op string, err error) {
	result := "ok"
	if err != nil {
		result = "refused"
	}
	transitions.WithLabelValues(op, result).Inc()
}

func SetSlots(n int) { slotCount.Set(float64(n)) }
