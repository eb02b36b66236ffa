package enum

// ── Order lifecycle (CHECK constrained in DB) ──

const (
	OrderStatusPending        = "PENDING"
	OrderStatusConfirmed      = "CONFIRMED"
	OrderStatusPreparing      = "PREPARING"
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusCancelled      = "CANCELLED"
)

// OrderStatuses lists every recognized status, in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether s is one of the six recognized statuses.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// statusText maps each status to its customer-facing label.
var statusText = map[string]string{
	OrderStatusPending:        "Order Received",
	OrderStatusConfirmed:      "Order Confirmed",
	OrderStatusPreparing:      "Preparing",
	OrderStatusOutForDelivery: "Out for Delivery",
	OrderStatusDelivered:      "Delivered",
	OrderStatusCancelled:      "Cancelled",
}

// estimatedMinutes maps each status to the remaining delivery estimate.
// Terminal statuses carry no estimate.
var estimatedMinutes = map[string]int32{
	OrderStatusPending:        30,
	OrderStatusConfirmed:      25,
	OrderStatusPreparing:      20,
	OrderStatusOutForDelivery: 15,
}

// StatusText returns the customer-facing label for a status.
func StatusText(status string) string {
	return statusText[status]
}

// EstimatedMinutes returns the remaining-minutes estimate for a status,
// or nil for DELIVERED and CANCELLED.
func EstimatedMinutes(status string) *int32 {
	if m, ok := estimatedMinutes[status]; ok {
		return &m
	}
	return nil
}
