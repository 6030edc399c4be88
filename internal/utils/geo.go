package utils

import (
	"math"

	"github.com/example/mangiaebasta/internal/models"
)

const earthRadiusKm = 6371

// HaversineKm returns the great-circle distance between a and b in km.
func HaversineKm(a, b models.Location) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Interpolate returns the point at fraction t of the straight segment from
// a to b. t is clamped to [0, 1].
func Interpolate(a, b models.Location, t float64) models.Location {
	t = math.Max(0, math.Min(1, t))
	return models.Location{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: a.Lng + (b.Lng-a.Lng)*t,
	}
}
