package mapper

import (
	"strconv"

	"github.com/example/mangiaebasta/internal/api"
	"github.com/example/mangiaebasta/internal/models"
)

// ImageURIPrefix turns a cached base64 payload into an inline image URI.
const ImageURIPrefix = "data:image/jpeg;base64,"

// ToMenu converts a menu payload into a Menu. The image version is kept as
// a string because cache validity is decided by string equality.
func ToMenu(p api.MenuPayload) models.Menu {
	return models.Menu{
		MID:              p.MID,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		Price:            p.Price,
		DeliveryTime:     p.DeliveryTime,
		ImageVersion:     strconv.Itoa(p.ImageVersion),
		Location:         p.Location,
	}
}

// ToMenus converts a list of payloads, preserving order.
func ToMenus(payloads []api.MenuPayload) []models.Menu {
	menus := make([]models.Menu, 0, len(payloads))
	for _, p := range payloads {
		menus = append(menus, ToMenu(p))
	}
	return menus
}

// ToMenuDetail converts the detail payload.
func ToMenuDetail(p api.MenuPayload) models.MenuDetail {
	return models.MenuDetail{
		Menu:            ToMenu(p),
		LongDescription: p.LongDescription,
	}
}

// ToUser converts the user payload. Null text fields become empty strings.
func ToUser(p api.UserPayload) models.User {
	user := models.User{
		UID:             p.UID,
		FirstName:       deref(p.FirstName),
		LastName:        deref(p.LastName),
		CardFullName:    deref(p.CardFullName),
		CardNumber:      deref(p.CardNumber),
		CardExpireMonth: derefInt(p.CardExpireMonth),
		CardExpireYear:  derefInt(p.CardExpireYear),
		CardCVV:         deref(p.CardCVV),
		OrderStatus:     models.OrderStatus(deref(p.OrderStatus)),
		Registered:      p.Registered(),
	}
	if p.LastOID != nil {
		oid := *p.LastOID
		user.LastOID = &oid
	}
	return user
}

// ToOrder converts an order payload.
func ToOrder(p api.OrderPayload) models.Order {
	order := models.Order{
		OID:                p.OID,
		MID:                p.MID,
		UID:                p.UID,
		Status:             models.OrderStatus(p.Status),
		DeliveryLocation:   p.DeliveryLocation,
		CreatedAt:          p.CreationTimestamp,
		ExpectedDeliveryAt: p.ExpectedDeliveryTimestamp,
		DeliveredAt:        p.DeliveryTimestamp,
	}
	if p.CurrentPosition != nil {
		pos := *p.CurrentPosition
		order.CurrentPosition = &pos
	}
	return order
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
