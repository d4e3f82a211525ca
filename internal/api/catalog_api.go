package api

import (
	"net/http"
	"strconv"

	"github.com/yalldumb/nails-tg-app/internal/metrics"
)

func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("services")
	writeJSON(w, http.StatusOK, s.catalog.List())
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")

	q := r.URL.Query()
	serviceID, _ := strconv.ParseInt(q.Get("service_id"), 10, 64)

	times, err := s.svc.Availability(r.Context(), q.Get("date"), serviceID)
	if err != nil {
		s.writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"times": times})
}

func (s *HTTPServer) handleBusyDates(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("busy_dates")

	dates, err := s.svc.BusyDates(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		s.writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"busy": dates})
}
