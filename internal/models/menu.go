package models

// Location is a WGS84 coordinate as exchanged with the API.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Menu is an immutable snapshot of a menu summary returned by the server.
// Image is filled client-side from the image cache.
type Menu struct {
	MID              int
	Name             string
	ShortDescription string
	Price            float64
	DeliveryTime     int
	ImageVersion     string
	Location         Location
	Image            string
}

// HasImage reports whether the image has been resolved.
func (m Menu) HasImage() bool {
	return m.Image != ""
}

// MenuDetail is a Menu plus the long description shown on its own page.
type MenuDetail struct {
	Menu
	LongDescription string
}
