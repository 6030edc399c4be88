package api

import (
	"time"

	"github.com/example/mangiaebasta/internal/models"
)

// RegisterResponse is returned by POST /user.
type RegisterResponse struct {
	SID string `json:"sid"`
	UID int    `json:"uid"`
}

// UserPayload is the user record; profile fields are null until the user
// registers.
type UserPayload struct {
	UID             int     `json:"uid"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	CardFullName    *string `json:"cardFullName"`
	CardNumber      *string `json:"cardNumber"`
	CardExpireMonth *int    `json:"cardExpireMonth"`
	CardExpireYear  *int    `json:"cardExpireYear"`
	CardCVV         *string `json:"cardCVV"`
	LastOID         *int    `json:"lastOid"`
	OrderStatus     *string `json:"orderStatus"`
}

// MenuPayload is a menu summary; LongDescription is only set by the
// detail endpoint.
type MenuPayload struct {
	MID              int             `json:"mid"`
	Name             string          `json:"name"`
	Price            float64         `json:"price"`
	Location         models.Location `json:"location"`
	ImageVersion     int             `json:"imageVersion"`
	ShortDescription string          `json:"shortDescription"`
	DeliveryTime     int             `json:"deliveryTime"`
	LongDescription  string          `json:"longDescription,omitempty"`
}

// ImagePayload is returned by GET /menu/{mid}/image.
type ImagePayload struct {
	Base64 string `json:"base64"`
}

// OrderPayload is returned by GET /order/{oid} and POST /menu/{mid}/buy.
type OrderPayload struct {
	OID                       int              `json:"oid"`
	MID                       int              `json:"mid"`
	UID                       int              `json:"uid"`
	CreationTimestamp         *time.Time       `json:"creationTimestamp,omitempty"`
	Status                    string           `json:"status"`
	DeliveryLocation          models.Location  `json:"deliveryLocation"`
	DeliveryTimestamp         *time.Time       `json:"deliveryTimestamp,omitempty"`
	ExpectedDeliveryTimestamp *time.Time       `json:"expectedDeliveryTimestamp,omitempty"`
	CurrentPosition           *models.Location `json:"currentPosition,omitempty"`
}

type modifyUserRequest struct {
	models.Profile
	SID string `json:"sid"`
}

type buyRequest struct {
	SID              string          `json:"sid"`
	DeliveryLocation models.Location `json:"deliveryLocation"`
}
