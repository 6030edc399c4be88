package handlers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"gorm.io/gorm"

	"github.com/example/mangiaebasta/internal/models"
)

type seedMenu struct {
	name, short, long string
	price             float64
	minutes           int
	dLat, dLng        float64
	tint              color.RGBA
}

var seedMenus = []seedMenu{
	{"Pizza Margherita", "Tomato, mozzarella, basil", "Wood-fired dough topped with San Marzano tomatoes, fior di latte and fresh basil.", 8.5, 15, 0.004, 0.003, color.RGBA{200, 60, 40, 255}},
	{"Risotto alla Milanese", "Saffron risotto", "Carnaroli rice slowly cooked in beef stock with saffron and finished with butter and Grana Padano.", 13, 25, 0.010, -0.006, color.RGBA{230, 180, 40, 255}},
	{"Cotoletta", "Breaded veal chop", "Bone-in veal cutlet fried in clarified butter, served with lemon and rocket.", 18, 30, -0.008, 0.011, color.RGBA{190, 140, 70, 255}},
	{"Lasagne", "Baked pasta with ragù", "Fresh egg pasta layered with slow-cooked ragù, béchamel and Parmigiano.", 11, 20, -0.015, -0.004, color.RGBA{170, 70, 50, 255}},
	{"Sushi Box", "Twelve mixed pieces", "Salmon and tuna nigiri, california rolls and a cucumber maki.", 16, 25, 0.021, 0.018, color.RGBA{240, 130, 110, 255}},
	{"Poke Bowl", "Salmon, rice, avocado", "Marinated salmon over sushi rice with avocado, edamame, mango and sesame.", 12.5, 18, -0.003, -0.019, color.RGBA{90, 170, 110, 255}},
	{"Burger", "Beef, cheddar, bacon", "Grilled beef patty with aged cheddar, smoked bacon and pickles in a brioche bun.", 10, 22, 0.030, -0.025, color.RGBA{130, 80, 40, 255}},
	{"Tiramisù", "Coffee and mascarpone", "Savoiardi soaked in espresso layered with mascarpone cream and cocoa.", 5.5, 12, 0.001, 0.002, color.RGBA{120, 90, 60, 255}},
}

// SeedMenus fills an empty menu table with dishes placed around center.
func SeedMenus(db *gorm.DB, center models.Location) error {
	var count int64
	if err := db.Model(&models.BackendMenu{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	menus := make([]models.BackendMenu, 0, len(seedMenus))
	for _, s := range seedMenus {
		img, err := placeholderImage(s.tint)
		if err != nil {
			return fmt.Errorf("render image for %s: %w", s.name, err)
		}
		menus = append(menus, models.BackendMenu{
			Name:             s.name,
			ShortDescription: s.short,
			LongDescription:  s.long,
			Price:            s.price,
			DeliveryTime:     s.minutes,
			ImageVersion:     1,
			ImageBase64:      img,
			Lat:              center.Lat + s.dLat,
			Lng:              center.Lng + s.dLng,
		})
	}
	return db.Create(&menus).Error
}

func placeholderImage(tint color.RGBA) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, tint)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 60}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
