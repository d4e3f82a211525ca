package models

import "time"

// Date and time formats used across the API and storage layers.
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
	TimeFormat = "15:04"      // HH:MM
)

// Service is a catalog entry. The catalog is defined at process start and
// never mutated.
type Service struct {
	ID              int64  `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Price           int    `json:"price" yaml:"price"` // rubles, no minor units
	DurationMinutes int    `json:"duration_minutes,omitempty" yaml:"duration_minutes"`
}

// Booking is an accepted reservation. Bookings are immutable after creation:
// there is no cancellation or editing.
type Booking struct {
	ID               int64     `json:"id"`
	ServiceID        int64     `json:"service_id"`
	ServiceTitle     string    `json:"service_title"`
	Date             string    `json:"date"`           // YYYY-MM-DD
	Time             string    `json:"time,omitempty"` // HH:MM, empty in date-only deployments
	ClientName       string    `json:"client_name"`
	ClientExternalID string    `json:"client_external_id,omitempty"`
	Comment          string    `json:"comment,omitempty"`
	Images           []string  `json:"images,omitempty"` // relative paths into the uploads dir
	CreatedAt        time.Time `json:"created_at"`
}

// ConflictKey returns the value whose exact-match equality defines "already
// booked": the date alone, or date plus start time when a time is set.
func (b *Booking) ConflictKey() string {
	if b.Time == "" {
		return b.Date
	}
	return b.Date + " " + b.Time
}

// OccupiesSlot reports whether the booking takes the given (date, time) pair.
func (b *Booking) OccupiesSlot(date, start string) bool {
	return b.Date == date && b.Time == start
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	t, err := time.Parse(DateFormat, s)
	return err == nil && t.Format(DateFormat) == s
}

// ValidTime reports whether s is a well-formed HH:MM time of day.
func ValidTime(s string) bool {
	t, err := time.Parse(TimeFormat, s)
	return err == nil && t.Format(TimeFormat) == s
}
