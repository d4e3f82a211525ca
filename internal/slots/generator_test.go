package slots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yalldumb/nails-tg-app/internal/models"
)

type fakeLookup struct {
	bookings []models.Booking
}

func (f *fakeLookup) ListByDate(_ context.Context, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestNewGenerator_Validation(t *testing.T) {
	store := &fakeLookup{}

	_, err := NewGenerator("10:00", "20:00", 15, store)
	assert.NoError(t, err)

	_, err = NewGenerator("25:00", "20:00", 15, store)
	assert.Error(t, err)

	_, err = NewGenerator("20:00", "10:00", 15, store)
	assert.Error(t, err)

	_, err = NewGenerator("10:00", "20:00", 0, store)
	assert.Error(t, err)
}

func TestStartTimes_WindowAndDuration(t *testing.T) {
	g, err := NewGenerator("10:00", "20:00", 15, &fakeLookup{})
	require.NoError(t, err)

	starts, err := g.StartTimes(context.Background(), "2025-06-01", 90)
	require.NoError(t, err)

	require.NotEmpty(t, starts)
	assert.Equal(t, "10:00", starts[0])
	// 18:30 + 90min lands exactly on close; 18:45 would overrun it.
	assert.Equal(t, "18:30", starts[len(starts)-1])
	assert.NotContains(t, starts, "18:45")

	// 10:00..18:30 stepped by 15 minutes.
	assert.Len(t, starts, 35)
}

func TestStartTimes_ExcludesBookedStarts(t *testing.T) {
	store := &fakeLookup{bookings: []models.Booking{
		{Date: "2025-06-01", Time: "10:15"},
		{Date: "2025-06-01", Time: "12:00"},
		{Date: "2025-06-02", Time: "10:00"}, // other day, irrelevant
	}}

	g, err := NewGenerator("10:00", "20:00", 15, store)
	require.NoError(t, err)

	starts, err := g.StartTimes(context.Background(), "2025-06-01", 30)
	require.NoError(t, err)

	assert.Contains(t, starts, "10:00")
	assert.NotContains(t, starts, "10:15")
	assert.NotContains(t, starts, "12:00")
	assert.Contains(t, starts, "10:30")
}

func TestStartTimes_DurationLongerThanWindow(t *testing.T) {
	g, err := NewGenerator("10:00", "12:00", 15, &fakeLookup{})
	require.NoError(t, err)

	starts, err := g.StartTimes(context.Background(), "2025-06-01", 180)
	require.NoError(t, err)
	assert.Empty(t, starts)
}

func TestStartTimes_Restartable(t *testing.T) {
	g, err := NewGenerator("10:00", "20:00", 15, &fakeLookup{})
	require.NoError(t, err)

	first, err := g.StartTimes(context.Background(), "2025-06-01", 60)
	require.NoError(t, err)
	second, err := g.StartTimes(context.Background(), "2025-06-01", 60)
	require.NoError(t, err)

	assert.Equal(t, first, second, "no internal cursor state")
}
