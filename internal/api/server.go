// Package api exposes the booking service over HTTP. Transport concerns
// only: every rule lives in the booking service and its collaborators.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/yalldumb/nails-tg-app/internal/access"
	"github.com/yalldumb/nails-tg-app/internal/booking"
	"github.com/yalldumb/nails-tg-app/internal/catalog"
	"github.com/yalldumb/nails-tg-app/internal/uploads"
)

// AdminTokenHeader carries the shared admin secret.
const AdminTokenHeader = "X-Admin-Token"

// maxSubmitBody bounds a submission body: photos dominate, so the cap is
// generous but finite.
const maxSubmitBody = 64 << 20

type HTTPServer struct {
	router     *mux.Router
	svc        *booking.Service
	catalog    *catalog.Catalog
	auth       access.Authorizer
	uploadsDir string
	slotMode   bool
	log        zerolog.Logger
}

func NewHTTPServer(
	svc *booking.Service,
	cat *catalog.Catalog,
	auth access.Authorizer,
	uploadsDir string,
	slotMode bool,
	logger zerolog.Logger,
) *HTTPServer {
	s := &HTTPServer{
		router:     mux.NewRouter(),
		svc:        svc,
		catalog:    cat,
		auth:       auth,
		uploadsDir: uploadsDir,
		slotMode:   slotMode,
		log:        logger.With().Str("component", "api").Logger(),
	}
	s.routes()
	return s
}

func (s *HTTPServer) routes() {
	r := s.router

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/services", s.handleServices).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings", s.handleSubmitBooking).Methods(http.MethodPost)
	r.HandleFunc("/api/bookings", s.handleMyBookings).Methods(http.MethodGet)
	r.HandleFunc("/busy-dates", s.handleBusyDates).Methods(http.MethodGet)

	if s.slotMode {
		r.HandleFunc("/api/availability", s.handleAvailability).Methods(http.MethodGet)
	}

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(s.requireAdmin)
	admin.HandleFunc("/bookings", s.handleAdminBookings).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/export", s.handleAdminExport).Methods(http.MethodGet)

	if s.uploadsDir != "" {
		r.PathPrefix(uploads.URLPrefix).Handler(
			http.StripPrefix(uploads.URLPrefix, http.FileServer(http.Dir(s.uploadsDir))))
	}
}

// Handler returns the root handler for mounting in an http.Server.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeRejection maps a booking-service rejection to its HTTP shape.
// Anything without a reason code is an internal fault.
func (s *HTTPServer) writeRejection(w http.ResponseWriter, err error) {
	code := booking.Code(err)
	switch code {
	case booking.CodeMissingFields, booking.CodeMissingParams:
		writeError(w, http.StatusBadRequest, err.Error(), code)
	case booking.CodeServiceNotFound:
		writeError(w, http.StatusNotFound, err.Error(), code)
	case booking.CodeDateBusy, booking.CodeSlotBusy:
		writeError(w, http.StatusConflict, err.Error(), code)
	case booking.CodeUploadFailed:
		writeError(w, http.StatusBadGateway, "failed to store attachments", code)
	default:
		s.log.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}
