package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homeserv",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homeserv",
			Name:      "bookings_created_total",
			Help:      "Bookings created, by kind (service or rental).",
		},
		[]string{"kind"},
	)

	bookingConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homeserv",
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts refused by the availability guard.",
		},
		[]string{"kind"},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homeserv",
			Name:      "status_transitions_total",
			Help:      "Applied booking status transitions.",
		},
		[]string{"kind", "status"},
	)

	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homeserv",
			Name:      "events_published_total",
			Help:      "Notification events handed to the emitter.",
		},
		[]string{"type"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			bookingsCreated,
			bookingConflicts,
			statusTransitions,
			eventsPublished,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBookingCreated counts a successfully created booking.
func IncBookingCreated(kind string) {
	bookingsCreated.WithLabelValues(kind).Inc()
}

// IncBookingConflict counts an availability conflict.
func IncBookingConflict(kind string) {
	bookingConflicts.WithLabelValues(kind).Inc()
}

// BookingConflictCount reports the running conflict total for a kind.
func BookingConflictCount(kind string) float64 {
	var m dto.Metric
	if err := bookingConflicts.WithLabelValues(kind).Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// IncStatusTransition counts an applied transition to the given status.
func IncStatusTransition(kind, status string) {
	statusTransitions.WithLabelValues(kind, status).Inc()
}

// IncEventPublished counts an event handed to the notification emitter.
func IncEventPublished(eventType string) {
	eventsPublished.WithLabelValues(eventType).Inc()
}
