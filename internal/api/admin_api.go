package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/yalldumb/nails-tg-app/internal/booking"
	"github.com/yalldumb/nails-tg-app/internal/metrics"
	"github.com/yalldumb/nails-tg-app/internal/report"
)

// requireAdmin gates the admin subrouter on the shared token header.
func (s *HTTPServer) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(AdminTokenHeader)
		if !s.auth.CanListAllBookings(token) {
			s.log.Warn().Str("path", r.URL.Path).Msg("admin access denied")
			writeError(w, http.StatusUnauthorized, "unauthorized", booking.CodeUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_bookings")

	list, err := s.svc.ListAll(r.Context())
	if err != nil {
		s.writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_export")

	list, err := s.svc.ListAll(r.Context())
	if err != nil {
		s.writeRejection(w, err)
		return
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := report.WriteBookings(w, list, s.catalog); err != nil {
		// Headers are already out, so the best we can do is log.
		s.log.Error().Err(err).Msg("export write failed")
	}
}
