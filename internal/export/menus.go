package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/example/mangiaebasta/internal/models"
	"github.com/example/mangiaebasta/internal/utils"
)

// SheetName is the worksheet holding the exported menus.
const SheetName = "Menus"

var header = []interface{}{"MID", "Name", "Description", "Price (€)", "Delivery (min)", "Distance (km)", "Image version"}

// WriteMenus writes menus as an .xlsx workbook to w. Distances are measured
// from origin; the column is left empty when origin is nil.
func WriteMenus(w io.Writer, menus []models.Menu, origin *models.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, m := range menus {
		row := []interface{}{m.MID, m.Name, m.ShortDescription, m.Price, m.DeliveryTime, nil, m.ImageVersion}
		if origin != nil {
			row[5] = roundKm(utils.HaversineKm(*origin, m.Location))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write menu %d: %w", m.MID, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "C", 30); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

func roundKm(km float64) float64 {
	return float64(int64(km*100+0.5)) / 100
}
