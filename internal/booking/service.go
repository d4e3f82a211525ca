// Package booking implements the intake service: the single gate through
// which a submission becomes a stored booking.
package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yalldumb/nails-tg-app/internal/cache"
	"github.com/yalldumb/nails-tg-app/internal/catalog"
	"github.com/yalldumb/nails-tg-app/internal/config"
	"github.com/yalldumb/nails-tg-app/internal/events"
	"github.com/yalldumb/nails-tg-app/internal/metrics"
	"github.com/yalldumb/nails-tg-app/internal/models"
	"github.com/yalldumb/nails-tg-app/internal/slots"
	"github.com/yalldumb/nails-tg-app/internal/storage"
)

// Photo is one attachment in a submission.
type Photo struct {
	Name string
	Data io.Reader
}

// Request is a booking submission before validation.
type Request struct {
	ServiceID        int64
	ServiceTitle     string // alternative to ServiceID
	Date             string // YYYY-MM-DD
	Time             string // HH:MM, slot mode only
	ClientName       string
	ClientExternalID string
	Comment          string
	Photos           []Photo
}

// Uploader stores one attachment and returns its reference.
// uploads.Store satisfies it.
type Uploader interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// Service validates submissions, checks conflicts, assigns identity and
// writes exactly one store entry per accepted booking.
type Service struct {
	catalog   *catalog.Catalog
	store     storage.BookingStore
	uploader  Uploader
	publisher events.Publisher
	generator *slots.Generator // nil in date-only deployments
	cache     *cache.Cache
	mode      string
	maxPhotos int
	logger    zerolog.Logger
}

func NewService(
	cat *catalog.Catalog,
	store storage.BookingStore,
	uploader Uploader,
	publisher events.Publisher,
	generator *slots.Generator,
	readCache *cache.Cache,
	conflictMode string,
	maxPhotos int,
	logger zerolog.Logger,
) *Service {
	return &Service{
		catalog:   cat,
		store:     store,
		uploader:  uploader,
		publisher: publisher,
		generator: generator,
		cache:     readCache,
		mode:      conflictMode,
		maxPhotos: maxPhotos,
		logger:    logger.With().Str("component", "booking").Logger(),
	}
}

// Submit runs the validation steps in order, short-circuiting on the first
// failure: required fields, catalog membership, conflict. On success it
// stores attachments, then the booking, and returns the stored record.
// Submit is not idempotent: resubmitting an identical request is rejected
// by the conflict check.
func (s *Service) Submit(ctx context.Context, req Request) (*models.Booking, error) {
	// 1. Required-field presence.
	req.ClientName = strings.TrimSpace(req.ClientName)
	if err := s.validateRequired(req); err != nil {
		metrics.IncBookingRejected(Code(err))
		return nil, err
	}

	// 2. Service reference must resolve in the catalog.
	service, err := s.resolveService(req)
	if err != nil {
		metrics.IncBookingRejected(Code(err))
		return nil, err
	}

	// 3. Conflict check. Advisory here so a busy slot rejects before any
	// attachment is written; the store repeats it atomically on create.
	if err := s.checkConflict(ctx, req); err != nil {
		metrics.IncBookingRejected(Code(err))
		return nil, err
	}

	images, err := s.storePhotos(ctx, req.Photos)
	if err != nil {
		metrics.IncBookingRejected(CodeUploadFailed)
		return nil, err
	}

	b := &models.Booking{
		ServiceID:        service.ID,
		ServiceTitle:     service.Title,
		Date:             req.Date,
		ClientName:       req.ClientName,
		ClientExternalID: strings.TrimSpace(req.ClientExternalID),
		Comment:          strings.TrimSpace(req.Comment),
		Images:           images,
		CreatedAt:        time.Now(),
	}
	if s.mode == config.ConflictModeDateTime {
		b.Time = req.Time
	}

	stored, err := s.store.Create(ctx, b)
	if errors.Is(err, storage.ErrConflict) {
		err = s.conflictError()
		metrics.IncBookingRejected(Code(err))
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("store booking: %w", err)
	}

	metrics.IncBookingAccepted(stored.ServiceTitle)
	s.cache.InvalidateDate(ctx, stored.Date)
	if s.publisher != nil {
		if err := s.publisher.PublishJSON(events.TypeBookingCreated, stored); err != nil {
			s.logger.Warn().Err(err).Int64("booking_id", stored.ID).Msg("event publish failed")
		}
	}

	s.logger.Info().
		Int64("booking_id", stored.ID).
		Str("service", stored.ServiceTitle).
		Str("date", stored.Date).
		Str("time", stored.Time).
		Msg("booking accepted")
	return stored, nil
}

func (s *Service) validateRequired(req Request) error {
	if req.ClientName == "" {
		return ErrMissingFields
	}
	if req.ServiceID <= 0 && strings.TrimSpace(req.ServiceTitle) == "" {
		return ErrMissingFields
	}
	if !models.ValidDate(req.Date) {
		return ErrMissingFields
	}
	if s.mode == config.ConflictModeDateTime && !models.ValidTime(req.Time) {
		return ErrMissingFields
	}
	return nil
}

func (s *Service) resolveService(req Request) (models.Service, error) {
	if req.ServiceID > 0 {
		service, ok := s.catalog.ByID(req.ServiceID)
		if !ok {
			return models.Service{}, ErrServiceNotFound
		}
		return service, nil
	}
	service, ok := s.catalog.ByTitle(req.ServiceTitle)
	if !ok {
		return models.Service{}, ErrServiceNotFound
	}
	return service, nil
}

func (s *Service) checkConflict(ctx context.Context, req Request) error {
	existing, err := s.store.ListByDate(ctx, req.Date)
	if err != nil {
		return fmt.Errorf("check conflict: %w", err)
	}
	if s.mode == config.ConflictModeDateTime {
		for _, b := range existing {
			if b.Time == req.Time {
				return ErrSlotBusy
			}
		}
		return nil
	}
	if len(existing) > 0 {
		return ErrDateBusy
	}
	return nil
}

func (s *Service) conflictError() error {
	if s.mode == config.ConflictModeDateTime {
		return ErrSlotBusy
	}
	return ErrDateBusy
}

// storePhotos writes attachments, truncating to the configured cap while
// preserving the order of the first N. Any failure aborts the submission.
func (s *Service) storePhotos(ctx context.Context, photos []Photo) ([]string, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	if len(photos) > s.maxPhotos {
		s.logger.Debug().Int("got", len(photos)).Int("cap", s.maxPhotos).Msg("truncating attachments")
		photos = photos[:s.maxPhotos]
	}

	refs := make([]string, 0, len(photos))
	for _, p := range photos {
		ref, err := s.uploader.Save(ctx, p.Name, p.Data)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// ListAll returns every stored booking, most recent first. Authorization is
// the HTTP layer's concern.
func (s *Service) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.store.ListAll(ctx)
}

// ListByClient returns the bookings created by one external client id.
func (s *Service) ListByClient(ctx context.Context, externalID string) ([]models.Booking, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, ErrMissingParams
	}
	return s.store.ListByClient(ctx, externalID)
}

// Availability computes bookable start times for a date and service. Only
// meaningful in slot-mode deployments.
func (s *Service) Availability(ctx context.Context, date string, serviceID int64) ([]string, error) {
	if s.generator == nil {
		return nil, errors.New("availability requires a date_time deployment")
	}
	if !models.ValidDate(date) || serviceID <= 0 {
		return nil, ErrMissingParams
	}
	service, ok := s.catalog.ByID(serviceID)
	if !ok {
		return nil, ErrServiceNotFound
	}

	key := cache.AvailabilityKey(date, serviceID)
	var starts []string
	if s.cache.Get(ctx, key, &starts) {
		return starts, nil
	}

	starts, err := s.generator.StartTimes(ctx, date, service.DurationMinutes)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, starts)
	return starts, nil
}

// BusyDates returns the dates of a YYYY-MM month that can no longer accept
// a booking, ascending. In date mode any booking makes the date busy; in
// slot mode the date is busy once no start time remains free.
func (s *Service) BusyDates(ctx context.Context, month string) ([]string, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrMissingParams
	}

	key := cache.BusyDatesKey(month)
	var busy []string
	if s.cache.Get(ctx, key, &busy) {
		return busy, nil
	}

	bookings, err := s.store.ListByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("list month: %w", err)
	}

	seen := make(map[string]struct{})
	busy = make([]string, 0)
	for _, b := range bookings {
		if _, dup := seen[b.Date]; dup {
			continue
		}
		seen[b.Date] = struct{}{}

		if s.generator != nil {
			free, err := s.generator.HasFreeStart(ctx, b.Date)
			if err != nil {
				return nil, err
			}
			if free {
				continue
			}
		}
		busy = append(busy, b.Date)
	}
	sort.Strings(busy)

	s.cache.Set(ctx, key, busy)
	return busy, nil
}
