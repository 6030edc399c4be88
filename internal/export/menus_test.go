package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/example/mangiaebasta/internal/models"
)

func TestWriteMenus(t *testing.T) {
	menus := []models.Menu{
		{MID: 1, Name: "Pizza", ShortDescription: "Margherita", Price: 8.5, DeliveryTime: 15, ImageVersion: "3", Location: models.Location{Lat: 45.4642, Lng: 9.19}},
		{MID: 2, Name: "Sushi", ShortDescription: "Twelve pieces", Price: 16, DeliveryTime: 25, ImageVersion: "1", Location: models.Location{Lat: 45.4742, Lng: 9.19}},
	}
	origin := models.Location{Lat: 45.4642, Lng: 9.19}

	var buf bytes.Buffer
	if err := WriteMenus(&buf, menus, &origin); err != nil {
		t.Fatalf("WriteMenus: %v", err)
	}

	xl, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer xl.Close()

	rows, err := xl.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "MID" || rows[0][1] != "Name" {
		t.Fatalf("header = %v", rows[0])
	}

	want := [][]string{
		{"1", "Pizza", "Margherita", "8.5", "15", "0", "3"},
		{"2", "Sushi", "Twelve pieces", "16", "25", "1.11", "1"},
	}
	for i, w := range want {
		for j, cell := range w {
			if rows[i+1][j] != cell {
				t.Errorf("row %d col %d = %q, want %q", i+1, j, rows[i+1][j], cell)
			}
		}
	}
}

func TestWriteMenusWithoutOrigin(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMenus(&buf, []models.Menu{{MID: 1, Name: "Pizza"}}, nil); err != nil {
		t.Fatalf("WriteMenus: %v", err)
	}
	xl, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer xl.Close()

	value, err := xl.GetCellValue(SheetName, "F2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if value != "" {
		t.Fatalf("distance = %q, want empty", value)
	}
}
