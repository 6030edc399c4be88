package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/mangiaebasta/internal/api"
	"github.com/example/mangiaebasta/internal/middleware"
	"github.com/example/mangiaebasta/internal/models"
	"github.com/example/mangiaebasta/internal/utils"
)

// UserHandler manages installation and profile endpoints.
type UserHandler struct {
	db      *gorm.DB
	secret  string
	courier *Courier
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(db *gorm.DB, secret string, courier *Courier) *UserHandler {
	return &UserHandler{db: db, secret: secret, courier: courier}
}

// Register creates an anonymous user and issues its session id.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	user := models.BackendUser{}
	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	sid, err := utils.GenerateSID(h.secret, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(api.RegisterResponse{SID: sid, UID: int(user.ID)})
}

// GetUser returns the user record; profile fields stay null until set.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.ownUser(c)
	if err != nil {
		return err
	}

	payload := api.UserPayload{
		UID:             int(user.ID),
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		CardFullName:    user.CardFullName,
		CardNumber:      user.CardNumber,
		CardExpireMonth: user.CardExpireMonth,
		CardExpireYear:  user.CardExpireYear,
		CardCVV:         user.CardCVV,
	}

	order, err := lastOrder(h.db, h.courier, user)
	if err != nil {
		return err
	}
	if order != nil {
		oid := int(order.ID)
		status := string(order.Status)
		payload.LastOID = &oid
		payload.OrderStatus = &status
	}

	return c.JSON(payload)
}

type updateUserRequest struct {
	models.Profile
	SID string `json:"sid"`
}

// UpdateUser replaces the profile and payment data.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	user, err := h.ownUser(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.Profile.Validate(h.courier.Now()); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	p := req.Profile
	user.FirstName = &p.FirstName
	user.LastName = &p.LastName
	user.CardFullName = &p.CardFullName
	user.CardNumber = &p.CardNumber
	user.CardExpireMonth = &p.CardExpireMonth
	user.CardExpireYear = &p.CardExpireYear
	user.CardCVV = &p.CardCVV

	if err := h.db.Save(user).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) ownUser(c *fiber.Ctx) (*models.BackendUser, error) {
	currentID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	uid, err := paramID(c, "uid")
	if err != nil {
		return nil, err
	}
	if uid != currentID {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "sid does not belong to this user")
	}

	var user models.BackendUser
	if err := h.db.First(&user, "id = ?", uid).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
