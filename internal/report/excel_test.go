package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yalldumb/nails-tg-app/internal/catalog"
	"github.com/yalldumb/nails-tg-app/internal/models"
)

func TestWriteBookings(t *testing.T) {
	cat := catalog.New([]models.Service{
		{ID: 1, Title: "Короткие", Price: 3500},
	})
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{
			ID: 2, ServiceID: 1, ServiceTitle: "Короткие",
			Date: "2025-06-02", Time: "12:30", ClientName: "Olga",
			ClientExternalID: "tg-2002",
			Images:           []string{"/uploads/a.jpg", "/uploads/b.jpg"},
			CreatedAt:        created,
		},
		{
			ID: 1, ServiceID: 42, ServiceTitle: "Архивная услуга",
			Date: "2025-06-01", ClientName: "Anna", CreatedAt: created,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, bookings, cat))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue(SheetName, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "ID", get("A1"))
	assert.Equal(t, "2", get("A2"))
	assert.Equal(t, "2025-06-02", get("B2"))
	assert.Equal(t, "12:30", get("C2"))
	assert.Equal(t, "Короткие", get("D2"))
	assert.Equal(t, "3500", get("E2"))
	assert.Equal(t, "2", get("I2"), "photo count")

	// Service missing from the catalog exports a zero price.
	assert.Equal(t, "0", get("E3"))
	assert.Equal(t, "Anna", get("F3"))
}

func TestWriteBookings_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, nil, catalog.New(nil)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
