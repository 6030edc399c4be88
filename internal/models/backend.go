package models

import "time"

// BackendUser is a registered installation in the development backend.
type BackendUser struct {
	BaseModel
	FirstName       *string
	LastName        *string
	CardFullName    *string
	CardNumber      *string
	CardExpireMonth *int
	CardExpireYear  *int
	CardCVV         *string
	LastOrderID     *uint
}

// HasPaymentData reports whether an order can be charged to the user.
func (u BackendUser) HasPaymentData() bool {
	return u.CardNumber != nil && *u.CardNumber != "" &&
		u.CardCVV != nil && *u.CardCVV != "" &&
		u.CardExpireMonth != nil && u.CardExpireYear != nil
}

// BackendMenu is a menu offered by the development backend.
type BackendMenu struct {
	BaseModel
	Name             string
	ShortDescription string
	LongDescription  string
	Price            float64
	DeliveryTime     int
	ImageVersion     int
	ImageBase64      string
	Lat              float64
	Lng              float64
}

// BackendOrder is an order placed against the development backend.
type BackendOrder struct {
	BaseModel
	UserID      uint `gorm:"index"`
	MenuID      uint
	Status      OrderStatus
	OriginLat   float64
	OriginLng   float64
	DeliveryLat float64
	DeliveryLng float64
	ExpectedAt  time.Time
	DeliveredAt *time.Time
}

// BackendTables lists the tables of the development backend.
func BackendTables() []interface{} {
	return []interface{}{
		&BackendUser{},
		&BackendMenu{},
		&BackendOrder{},
	}
}
