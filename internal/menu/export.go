package menu

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"menuboard/internal"
)

var exportHeaders = []string{
	"category", "id", "name", "price", "stock", "available", "description", "image_url",
}

// ExportCategoriesToXLSX writes one row per item, in menu order.
func ExportCategoriesToXLSX(categories []internal.MenuCategory, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	r := 2
	for _, category := range categories {
		for _, item := range category.Items {
			set := func(col int, value any) {
				cell, _ := excelize.CoordinatesToCellName(col, r)
				_ = f.SetCellValue(sheet, cell, value)
			}
			set(1, category.Name)
			set(2, item.ID)
			set(3, item.Name)
			set(4, item.Price)
			set(5, item.Stock)
			set(6, item.Available)
			set(7, item.Description)
			set(8, item.ImageURL)
			r++
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
