package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/mangiaebasta/internal/api"
	"github.com/example/mangiaebasta/internal/middleware"
	"github.com/example/mangiaebasta/internal/models"
)

// OrderHandler serves order status.
type OrderHandler struct {
	db      *gorm.DB
	courier *Courier
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, courier *Courier) *OrderHandler {
	return &OrderHandler{db: db, courier: courier}
}

// GetOrder returns the current status and courier position of an order.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	oid, err := paramID(c, "oid")
	if err != nil {
		return err
	}

	var order models.BackendOrder
	if err := h.db.First(&order, "id = ? AND user_id = ?", oid, userID).Error; err != nil {
		return err
	}
	if err := advance(h.db, h.courier, &order); err != nil {
		return err
	}

	return c.JSON(orderPayload(order, h.courier))
}

// lastOrder loads the user's most recent order, advanced to now.
func lastOrder(db *gorm.DB, courier *Courier, user *models.BackendUser) (*models.BackendOrder, error) {
	if user.LastOrderID == nil {
		return nil, nil
	}
	var order models.BackendOrder
	if err := db.First(&order, "id = ?", *user.LastOrderID).Error; err != nil {
		return nil, err
	}
	if err := advance(db, courier, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func advance(db *gorm.DB, courier *Courier, order *models.BackendOrder) error {
	if !courier.Advance(order) {
		return nil
	}
	return db.Model(order).Updates(map[string]any{
		"status":       order.Status,
		"delivered_at": order.DeliveredAt,
	}).Error
}

func orderPayload(order models.BackendOrder, courier *Courier) api.OrderPayload {
	created := order.CreatedAt
	pos := courier.Position(order)
	payload := api.OrderPayload{
		OID:               int(order.ID),
		MID:               int(order.MenuID),
		UID:               int(order.UserID),
		CreationTimestamp: &created,
		Status:            string(order.Status),
		DeliveryLocation:  models.Location{Lat: order.DeliveryLat, Lng: order.DeliveryLng},
		CurrentPosition:   &pos,
	}
	if order.Status == models.OrderCompleted {
		payload.DeliveryTimestamp = order.DeliveredAt
	} else {
		expected := order.ExpectedAt
		payload.ExpectedDeliveryTimestamp = &expected
	}
	return payload
}
