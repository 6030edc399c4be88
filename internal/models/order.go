package models

import "time"

// OrderStatus is the lifecycle status reported by the server.
type OrderStatus string

const (
	OrderOnDelivery OrderStatus = "ON_DELIVERY"
	OrderCompleted  OrderStatus = "COMPLETED"
)

// Known reports whether the status is one the client understands.
func (s OrderStatus) Known() bool {
	return s == OrderOnDelivery || s == OrderCompleted
}

// Order is a server-owned order snapshot.
type Order struct {
	OID                int
	MID                int
	UID                int
	Status             OrderStatus
	DeliveryLocation   Location
	CurrentPosition    *Location
	CreatedAt          *time.Time
	ExpectedDeliveryAt *time.Time
	DeliveredAt        *time.Time
}
