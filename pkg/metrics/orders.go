package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts order lifecycle events.
type OrderMetrics struct {
	created              *prometheus.CounterVec
	transitions          *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, by fulfillment method.",
	}, []string{"method"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions applied, by target status.",
	}, []string{"status"})
	notificationFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_notification_failures_total",
		Help: "Best-effort notification dispatches that failed, by kind.",
	}, []string{"kind"})
	reg.MustRegister(created, transitions, notificationFailures)
	return &OrderMetrics{
		created:              created,
		transitions:          transitions,
		notificationFailures: notificationFailures,
	}
}

// IncCreated increments the created counter for the fulfillment method.
func (o *OrderMetrics) IncCreated(method string) {
	if o == nil || o.created == nil {
		return
	}
	o.created.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncTransition increments the transition counter for the target status.
func (o *OrderMetrics) IncTransition(status string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncNotificationFailure increments the failed-dispatch counter.
func (o *OrderMetrics) IncNotificationFailure(kind string) {
	if o == nil || o.notificationFailures == nil {
		return
	}
	o.notificationFailures.WithLabelValues(normalizeLabel(kind)).Inc()
}
