package handlers

import (
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/mangiaebasta/internal/api"
	"github.com/example/mangiaebasta/internal/middleware"
	"github.com/example/mangiaebasta/internal/models"
	"github.com/example/mangiaebasta/internal/utils"
)

// nearbyLimit caps the menus returned around a position.
const nearbyLimit = 20

// MenuHandler manages menu listing and purchase endpoints.
type MenuHandler struct {
	db      *gorm.DB
	courier *Courier
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(db *gorm.DB, courier *Courier) *MenuHandler {
	return &MenuHandler{db: db, courier: courier}
}

// ListNearby returns the menus closest to lat/lng, nearest first, at most
// nearbyLimit of them.
func (h *MenuHandler) ListNearby(c *fiber.Ctx) error {
	pos, err := queryLocation(c)
	if err != nil {
		return err
	}

	var menus []models.BackendMenu
	if err := h.db.Find(&menus).Error; err != nil {
		return err
	}

	sort.SliceStable(menus, func(i, j int) bool {
		return utils.HaversineKm(pos, menuLocation(menus[i])) < utils.HaversineKm(pos, menuLocation(menus[j]))
	})
	if limit := utils.ParseLimit(c, nearbyLimit); len(menus) > limit {
		menus = menus[:limit]
	}

	out := make([]api.MenuPayload, 0, len(menus))
	for _, m := range menus {
		out = append(out, menuPayload(m, false))
	}
	return c.JSON(out)
}

// GetMenu returns one menu with its long description.
func (h *MenuHandler) GetMenu(c *fiber.Ctx) error {
	if _, err := queryLocation(c); err != nil {
		return err
	}
	menu, err := h.menu(c)
	if err != nil {
		return err
	}
	return c.JSON(menuPayload(*menu, true))
}

// GetImage returns the menu picture as base64.
func (h *MenuHandler) GetImage(c *fiber.Ctx) error {
	menu, err := h.menu(c)
	if err != nil {
		return err
	}
	return c.JSON(api.ImagePayload{Base64: menu.ImageBase64})
}

type buyRequest struct {
	SID              string          `json:"sid"`
	DeliveryLocation models.Location `json:"deliveryLocation"`
}

// Buy places an order for the menu. It is refused with 409 while another
// order is on delivery and with 403 when the user has no card on file.
func (h *MenuHandler) Buy(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req buyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if !validCoordinates(req.DeliveryLocation) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid delivery location")
	}

	menu, err := h.menu(c)
	if err != nil {
		return err
	}

	var user models.BackendUser
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	active, err := lastOrder(h.db, h.courier, &user)
	if err != nil {
		return err
	}
	if active != nil && active.Status == models.OrderOnDelivery {
		return fiber.NewError(fiber.StatusConflict, "an order is already on delivery")
	}
	if !user.HasPaymentData() {
		return fiber.NewError(fiber.StatusForbidden, "payment data missing")
	}

	now := h.courier.Now()
	order := models.BackendOrder{
		BaseModel:   models.BaseModel{CreatedAt: now, UpdatedAt: now},
		UserID:      user.ID,
		MenuID:      menu.ID,
		Status:      models.OrderOnDelivery,
		OriginLat:   menu.Lat,
		OriginLng:   menu.Lng,
		DeliveryLat: req.DeliveryLocation.Lat,
		DeliveryLng: req.DeliveryLocation.Lng,
		ExpectedAt:  h.courier.ETA(now, menu.DeliveryTime),
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("last_order_id", order.ID).Error
	}); err != nil {
		return err
	}

	return c.JSON(orderPayload(order, h.courier))
}

func (h *MenuHandler) menu(c *fiber.Ctx) (*models.BackendMenu, error) {
	mid, err := paramID(c, "mid")
	if err != nil {
		return nil, err
	}
	var menu models.BackendMenu
	if err := h.db.First(&menu, "id = ?", mid).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func queryLocation(c *fiber.Ctx) (models.Location, error) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	pos := models.Location{Lat: lat, Lng: lng}
	if errLat != nil || errLng != nil || !validCoordinates(pos) {
		return models.Location{}, fiber.NewError(fiber.StatusBadRequest, "lat and lng are required")
	}
	return pos, nil
}

func validCoordinates(pos models.Location) bool {
	return pos.Lat >= -90 && pos.Lat <= 90 && pos.Lng >= -180 && pos.Lng <= 180
}

func menuLocation(m models.BackendMenu) models.Location {
	return models.Location{Lat: m.Lat, Lng: m.Lng}
}

func menuPayload(m models.BackendMenu, detail bool) api.MenuPayload {
	p := api.MenuPayload{
		MID:              int(m.ID),
		Name:             m.Name,
		Price:            m.Price,
		Location:         menuLocation(m),
		ImageVersion:     m.ImageVersion,
		ShortDescription: m.ShortDescription,
		DeliveryTime:     m.DeliveryTime,
	}
	if detail {
		p.LongDescription = m.LongDescription
	}
	return p
}
