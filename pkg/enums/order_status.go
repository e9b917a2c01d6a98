package enums

import "fmt"

// OrderStatus is the fulfillment lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// orderStatusTransitions maps each status to the set of statuses it may move
// to. Completed and cancelled are terminal and have no outbound transitions.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusPreparing, OrderStatusReady, OrderStatusOutForDelivery, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusReady, OrderStatusOutForDelivery, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusReady:          {OrderStatusOutForDelivery, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:      {},
	OrderStatusCancelled:      {},
}

// notifyingStatuses are the targets that trigger a customer notification when
// reached via a transition.
var notifyingStatuses = []OrderStatus{
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCompleted || o == OrderStatusCancelled
}

// CanTransitionTo reports whether the order may move from this status to next.
// out-for-delivery is only reachable for delivery orders, so the order's
// fulfillment method participates in the check.
func (o OrderStatus) CanTransitionTo(next OrderStatus, method FulfillmentMethod) bool {
	if next == OrderStatusOutForDelivery && method != FulfillmentMethodDelivery {
		return false
	}
	for _, candidate := range orderStatusTransitions[o] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Notifies reports whether reaching this status dispatches a customer
// notification.
func (o OrderStatus) Notifies() bool {
	for _, candidate := range notifyingStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts the raw string to OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
