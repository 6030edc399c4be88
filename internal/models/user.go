package models

import (
	"errors"
	"strings"
	"time"
)

// User is the profile record of the current installation.
type User struct {
	UID             int
	FirstName       string
	LastName        string
	CardFullName    string
	CardNumber      string
	CardExpireMonth int
	CardExpireYear  int
	CardCVV         string
	LastOID         *int
	OrderStatus     OrderStatus
	// Registered is true once the server reports a first name.
	Registered bool
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasActiveOrder reports whether the last order is still being delivered.
func (u User) HasActiveOrder() bool {
	return u.OrderStatus == OrderOnDelivery
}

// Profile holds the fields a user can edit; it is sent as-is on save.
type Profile struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	CardFullName    string `json:"cardFullName"`
	CardNumber      string `json:"cardNumber"`
	CardExpireMonth int    `json:"cardExpireMonth"`
	CardExpireYear  int    `json:"cardExpireYear"`
	CardCVV         string `json:"cardCVV"`
}

// Profile validation errors.
var (
	ErrNameRequired = errors.New("first and last name are required")
	ErrCardHolder   = errors.New("card holder name is required")
	ErrCardNumber   = errors.New("card number must be 16 digits")
	ErrCardExpired  = errors.New("card expiry date is invalid or in the past")
	ErrCardCVV      = errors.New("cvv must be 3 digits")
)

// Validate checks the form fields; now decides whether the card has expired.
func (p Profile) Validate(now time.Time) error {
	switch {
	case strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "":
		return ErrNameRequired
	case strings.TrimSpace(p.CardFullName) == "":
		return ErrCardHolder
	case !digits(p.CardNumber, 16):
		return ErrCardNumber
	case p.CardExpireMonth < 1 || p.CardExpireMonth > 12:
		return ErrCardExpired
	case p.CardExpireYear < now.Year() || (p.CardExpireYear == now.Year() && p.CardExpireMonth < int(now.Month())):
		return ErrCardExpired
	case !digits(p.CardCVV, 3):
		return ErrCardCVV
	}
	return nil
}

func digits(s string, n int) bool {
	return len(s) == n && strings.Trim(s, "0123456789") == ""
}

// ProfileOf extracts the editable part of a user.
func ProfileOf(u User) Profile {
	return Profile{
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		CardFullName:    u.CardFullName,
		CardNumber:      u.CardNumber,
		CardExpireMonth: u.CardExpireMonth,
		CardExpireYear:  u.CardExpireYear,
		CardCVV:         u.CardCVV,
	}
}

// Credentials identify one installation against the API.
type Credentials struct {
	SID string
	UID int
}

// Valid reports whether both halves of the pair are present.
func (c Credentials) Valid() bool {
	return c.SID != "" && c.UID != 0
}
