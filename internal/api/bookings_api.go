package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/yalldumb/nails-tg-app/internal/booking"
	"github.com/yalldumb/nails-tg-app/internal/metrics"
)

type submitRequest struct {
	ServiceID        int64  `json:"service_id"`
	ServiceTitle     string `json:"service_title"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	ClientName       string `json:"client_name"`
	ClientExternalID string `json:"client_external_id"`
	Comment          string `json:"comment"`
}

// handleSubmitBooking accepts either a JSON body or multipart/form-data
// with photo attachments under the "photos" field.
func (s *HTTPServer) handleSubmitBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("submit_booking")
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBody)

	req, closeFiles, err := s.parseSubmit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", "")
		return
	}
	defer closeFiles()

	b, err := s.svc.Submit(r.Context(), req)
	if err != nil {
		s.writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// parseSubmit builds the intake request from either body encoding. The
// returned closer releases any multipart file handles and is always
// safe to call.
func (s *HTTPServer) parseSubmit(r *http.Request) (booking.Request, func(), error) {
	noop := func() {}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}
	if strings.HasPrefix(mediaType, "multipart/") {
		return s.parseMultipartSubmit(r)
	}

	var body submitRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return booking.Request{}, noop, err
	}
	return booking.Request{
		ServiceID:        body.ServiceID,
		ServiceTitle:     body.ServiceTitle,
		Date:             body.Date,
		Time:             body.Time,
		ClientName:       body.ClientName,
		ClientExternalID: body.ClientExternalID,
		Comment:          body.Comment,
	}, noop, nil
}

func (s *HTTPServer) parseMultipartSubmit(r *http.Request) (booking.Request, func(), error) {
	noop := func() {}
	if err := r.ParseMultipartForm(maxSubmitBody); err != nil {
		return booking.Request{}, noop, err
	}

	serviceID, _ := strconv.ParseInt(r.FormValue("service_id"), 10, 64)
	req := booking.Request{
		ServiceID:        serviceID,
		ServiceTitle:     r.FormValue("service_title"),
		Date:             r.FormValue("date"),
		Time:             r.FormValue("time"),
		ClientName:       r.FormValue("client_name"),
		ClientExternalID: r.FormValue("client_external_id"),
		Comment:          r.FormValue("comment"),
	}

	var opened []interface{ Close() error }
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	if r.MultipartForm != nil {
		for _, hdr := range r.MultipartForm.File["photos"] {
			f, err := hdr.Open()
			if err != nil {
				closeAll()
				return booking.Request{}, noop, err
			}
			opened = append(opened, f)
			req.Photos = append(req.Photos, booking.Photo{Name: hdr.Filename, Data: f})
		}
	}
	return req, closeAll, nil
}

func (s *HTTPServer) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("my_bookings")

	clientID := r.URL.Query().Get("client_id")
	list, err := s.svc.ListByClient(r.Context(), clientID)
	if err != nil {
		s.writeRejection(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
