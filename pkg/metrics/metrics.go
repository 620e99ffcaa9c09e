package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SlotBookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"result"},
	)

	SlotBookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_booking_cancellations_total",
			Help: "Booking cancellation attempts by outcome",
		},
		[]string{"result"},
	)

	GymSlotsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gym_slots_published_total",
			Help: "Total number of slots published by gyms",
		},
	)

	NotificationsDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Notification events by delivery status",
		},
		[]string{"status"},
	)

	ArchiveRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archive_records_total",
			Help: "Records flagged archived by the retention sweeper",
		},
		[]string{"collection"},
	)

	StoreTxRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_tx_retries_total",
			Help: "Transactions retried after serialization failure, deadlock or lock timeout",
		},
	)
)

func RecordHTTPRequest(method, route, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordBooking counts a booking attempt; result is "success" or an errcode.
func RecordBooking(result string) {
	SlotBookingsTotal.WithLabelValues(result).Inc()
}

func RecordCancellation(result string) {
	SlotBookingCancellationsTotal.WithLabelValues(result).Inc()
}

func RecordSlotPublished() {
	GymSlotsPublishedTotal.Inc()
}

// RecordNotification counts an event as queued, delivered, retried or failed.
func RecordNotification(status string) {
	NotificationsDispatchedTotal.WithLabelValues(status).Inc()
}

func RecordArchived(collection string, n int) {
	ArchiveRecordsTotal.WithLabelValues(collection).Add(float64(n))
}

func RecordTxRetry() {
	StoreTxRetriesTotal.Inc()
}
