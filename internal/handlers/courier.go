package handlers

import (
	"time"

	"github.com/example/mangiaebasta/internal/models"
	"github.com/example/mangiaebasta/internal/utils"
)

// Courier moves orders from the restaurant to the customer on a clock.
type Courier struct {
	now   func() time.Time
	speed float64
}

// NewCourier builds a courier. speed scales delivery times (2 halves
// them); now defaults to time.Now.
func NewCourier(speed float64, now func() time.Time) *Courier {
	if speed <= 0 {
		speed = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Courier{now: now, speed: speed}
}

// Now returns the courier's current time.
func (c *Courier) Now() time.Time {
	return c.now()
}

// ETA returns when an order dispatched at start is delivered.
func (c *Courier) ETA(start time.Time, deliveryMinutes int) time.Time {
	d := time.Duration(float64(deliveryMinutes) * float64(time.Minute) / c.speed)
	return start.Add(d)
}

// Advance completes order once its expected time has passed and reports
// whether it changed.
func (c *Courier) Advance(order *models.BackendOrder) bool {
	if order.Status != models.OrderOnDelivery || c.now().Before(order.ExpectedAt) {
		return false
	}
	delivered := order.ExpectedAt
	order.Status = models.OrderCompleted
	order.DeliveredAt = &delivered
	return true
}

// Position returns where the courier of order is now.
func (c *Courier) Position(order models.BackendOrder) models.Location {
	origin := models.Location{Lat: order.OriginLat, Lng: order.OriginLng}
	dest := models.Location{Lat: order.DeliveryLat, Lng: order.DeliveryLng}
	if order.Status == models.OrderCompleted {
		return dest
	}

	total := order.ExpectedAt.Sub(order.CreatedAt)
	if total <= 0 {
		return dest
	}
	elapsed := c.now().Sub(order.CreatedAt)
	return utils.Interpolate(origin, dest, float64(elapsed)/float64(total))
}
