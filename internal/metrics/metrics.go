package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nails",
			Name:      "booking_accepted_total",
			Help:      "Count of accepted bookings by service title.",
		},
		[]string{"service"},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nails",
			Name:      "booking_rejected_total",
			Help:      "Count of rejected booking submissions by reason code.",
		},
		[]string{"reason"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nails",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	photosStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nails",
			Name:      "photos_stored_total",
			Help:      "Count of attachment blobs written to the uploads dir.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingAccepted, bookingRejected, httpRequests, photosStored)
	})
}

func IncBookingAccepted(service string) {
	bookingAccepted.WithLabelValues(service).Inc()
}

func IncBookingRejected(reason string) {
	bookingRejected.WithLabelValues(reason).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncPhotosStored() {
	photosStored.Inc()
}
