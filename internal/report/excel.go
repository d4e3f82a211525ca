// Package report renders the admin booking listing as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yalldumb/nails-tg-app/internal/catalog"
	"github.com/yalldumb/nails-tg-app/internal/models"
)

// SheetName is the single sheet the export writes.
const SheetName = "Bookings"

var header = []string{
	"ID", "Date", "Time", "Service", "Price", "Client",
	"Client ID", "Comment", "Photos", "Created At",
}

// WriteBookings streams the bookings into an xlsx workbook. Prices are
// resolved through the catalog; a price of 0 marks a service that has since
// left the catalog.
func WriteBookings(w io.Writer, bookings []models.Booking, cat *catalog.Catalog) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetName)

	if err := writeRow(f, 1, toCells(header)); err != nil {
		return err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(SheetName, "A1", endCell, style)
	}

	for i, b := range bookings {
		price := 0
		if service, ok := cat.ByID(b.ServiceID); ok {
			price = service.Price
		}
		row := []any{
			b.ID, b.Date, b.Time, b.ServiceTitle, price, b.ClientName,
			b.ClientExternalID, b.Comment, len(b.Images),
			b.CreatedAt.Format(time.RFC3339),
		}
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeRow(f *excelize.File, rowNum int, values []any) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, val); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
