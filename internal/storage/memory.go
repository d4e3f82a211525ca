package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yalldumb/nails-tg-app/internal/config"
	"github.com/yalldumb/nails-tg-app/internal/models"
)

// MemoryStore keeps bookings in process memory, most recent first. This is
// the default backend: storage lifetime is bounded by the process lifetime.
type MemoryStore struct {
	mu       sync.Mutex
	bookings []models.Booking
	taken    map[string]struct{}
	nextID   int64
	mode     string
}

func NewMemoryStore(conflictMode string) *MemoryStore {
	return &MemoryStore{
		taken:  make(map[string]struct{}),
		nextID: 1,
		mode:   conflictMode,
	}
}

func (s *MemoryStore) key(b *models.Booking) string {
	if s.mode == config.ConflictModeDateTime {
		return b.Date + " " + b.Time
	}
	return b.Date
}

func (s *MemoryStore) Create(_ context.Context, b *models.Booking) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.key(b)
	if _, busy := s.taken[key]; busy {
		return nil, ErrConflict
	}

	stored := *b
	stored.ID = s.nextID
	s.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	s.taken[key] = struct{}{}
	s.bookings = append([]models.Booking{stored}, s.bookings...)
	return &stored, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Booking(nil), s.bookings...), nil
}

func (s *MemoryStore) ListByClient(_ context.Context, externalID string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.ClientExternalID == externalID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListByDate(_ context.Context, date string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListByMonth(_ context.Context, month string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if strings.HasPrefix(b.Date, month+"-") {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
