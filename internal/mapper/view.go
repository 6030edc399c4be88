package mapper

import (
	"fmt"

	"github.com/example/mangiaebasta/internal/models"
)

// MenuView is the display shape of a menu. Identity, price and delivery
// time are carried through unchanged.
type MenuView struct {
	MID              int     `json:"mid"`
	Name             string  `json:"name"`
	ShortDescription string  `json:"shortDescription"`
	LongDescription  string  `json:"longDescription,omitempty"`
	Price            float64 `json:"price"`
	DeliveryTime     int     `json:"deliveryTime"`
	Image            string  `json:"image,omitempty"`
}

// ToView shapes a menu for display.
func ToView(m models.Menu) MenuView {
	return MenuView{
		MID:              m.MID,
		Name:             m.Name,
		ShortDescription: m.ShortDescription,
		Price:            m.Price,
		DeliveryTime:     m.DeliveryTime,
		Image:            m.Image,
	}
}

// DetailView shapes a menu detail for display.
func DetailView(d models.MenuDetail) MenuView {
	view := ToView(d.Menu)
	view.LongDescription = d.LongDescription
	return view
}

// PriceLabel renders a price the way the menu card shows it.
func (v MenuView) PriceLabel() string {
	return fmt.Sprintf("€%.2f", v.Price)
}

// DeliveryLabel renders the delivery estimate.
func (v MenuView) DeliveryLabel() string {
	return fmt.Sprintf("%d min", v.DeliveryTime)
}
