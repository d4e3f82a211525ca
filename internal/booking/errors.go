package booking

import (
	"errors"

	"github.com/yalldumb/nails-tg-app/internal/uploads"
)

// Rejection reasons. All are recoverable at the request boundary; the HTTP
// layer maps them to status codes via Code.
var (
	ErrMissingFields   = errors.New("booking: required fields missing")
	ErrServiceNotFound = errors.New("booking: unknown service")
	ErrDateBusy        = errors.New("booking: date already booked")
	ErrSlotBusy        = errors.New("booking: slot already booked")
	ErrMissingParams   = errors.New("booking: required params missing")
)

// Reason codes exposed in API error bodies.
const (
	CodeMissingFields   = "MISSING_FIELDS"
	CodeServiceNotFound = "SERVICE_NOT_FOUND"
	CodeDateBusy        = "DATE_BUSY"
	CodeSlotBusy        = "SLOT_BUSY"
	CodeMissingParams   = "MISSING_PARAMS"
	CodeUploadFailed    = "UPLOAD_FAILED"
	CodeUnauthorized    = "UNAUTHORIZED"
)

// Code maps a rejection to its reason code, or "" for non-rejections.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return CodeMissingFields
	case errors.Is(err, ErrServiceNotFound):
		return CodeServiceNotFound
	case errors.Is(err, ErrDateBusy):
		return CodeDateBusy
	case errors.Is(err, ErrSlotBusy):
		return CodeSlotBusy
	case errors.Is(err, ErrMissingParams):
		return CodeMissingParams
	case errors.Is(err, uploads.ErrUploadFailed):
		return CodeUploadFailed
	default:
		return ""
	}
}
