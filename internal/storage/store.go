// Package storage provides booking persistence behind a single interface so
// the intake service can be tested without a real store and a durable
// backend can be substituted without touching validation logic.
package storage

import (
	"context"
	"errors"

	"github.com/yalldumb/nails-tg-app/internal/models"
)

// ErrConflict is returned by Create when the booking's conflict key (date,
// or date+time) is already taken.
var ErrConflict = errors.New("storage: conflict key already booked")

// BookingStore is the write/read surface the intake service depends on.
// Create must perform its conflict check and the append atomically: it is
// the one place a race between two submissions is possible.
type BookingStore interface {
	// Create stores the booking, assigning its id. Exactly one write on
	// success; ErrConflict and no write when the conflict key is taken.
	Create(ctx context.Context, b *models.Booking) (*models.Booking, error)

	// ListAll returns every booking, most recent first.
	ListAll(ctx context.Context) ([]models.Booking, error)

	// ListByClient returns bookings for an external client id, most recent
	// first.
	ListByClient(ctx context.Context, externalID string) ([]models.Booking, error)

	// ListByDate returns bookings on a YYYY-MM-DD date.
	ListByDate(ctx context.Context, date string) ([]models.Booking, error)

	// ListByMonth returns bookings whose date falls in a YYYY-MM month.
	ListByMonth(ctx context.Context, month string) ([]models.Booking, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}
