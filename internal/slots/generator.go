// Package slots derives bookable start times for a day from the salon's
// working window, the slot granularity and a service's duration.
package slots

import (
	"context"
	"fmt"

	"github.com/yalldumb/nails-tg-app/internal/models"
)

// BookedLookup answers which bookings already exist on a date.
// storage.BookingStore satisfies it.
type BookedLookup interface {
	ListByDate(ctx context.Context, date string) ([]models.Booking, error)
}

// Generator produces start times for (date, duration). The computation is
// pure per call: candidates are rebuilt from the window constants every
// time, then filtered against the store.
type Generator struct {
	startMin int // working window start, minutes since midnight
	endMin   int // working window end, exclusive
	stepMin  int // slot granularity
	store    BookedLookup
}

func NewGenerator(dayStart, dayEnd string, stepMinutes int, store BookedLookup) (*Generator, error) {
	startMin, err := parseClock(dayStart)
	if err != nil {
		return nil, fmt.Errorf("parse day start: %w", err)
	}
	endMin, err := parseClock(dayEnd)
	if err != nil {
		return nil, fmt.Errorf("parse day end: %w", err)
	}
	if endMin <= startMin {
		return nil, fmt.Errorf("working window %s-%s is empty", dayStart, dayEnd)
	}
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("slot step must be positive, got %d", stepMinutes)
	}
	return &Generator{startMin: startMin, endMin: endMin, stepMin: stepMinutes, store: store}, nil
}

// StartTimes returns every start t in the window, stepped by the
// granularity, such that t+duration fits before close and no existing
// booking already holds (date, t). Ordered ascending.
func (g *Generator) StartTimes(ctx context.Context, date string, durationMinutes int) ([]string, error) {
	booked, err := g.store.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b.Time] = struct{}{}
	}

	out := make([]string, 0)
	for t := g.startMin; t+durationMinutes <= g.endMin; t += g.stepMin {
		start := formatClock(t)
		if _, busy := taken[start]; busy {
			continue
		}
		out = append(out, start)
	}
	return out, nil
}

// HasFreeStart reports whether any start at the slot granularity is still
// free on the date. Used by busy-date computation in slot mode.
func (g *Generator) HasFreeStart(ctx context.Context, date string) (bool, error) {
	starts, err := g.StartTimes(ctx, date, g.stepMin)
	if err != nil {
		return false, err
	}
	return len(starts) > 0, nil
}

func parseClock(s string) (int, error) {
	if !models.ValidTime(s) {
		return 0, fmt.Errorf("invalid time %q; expected HH:MM", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
