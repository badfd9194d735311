package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	httpPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_panics_recovered_total",
			Help: "Handler panics turned into 500 responses",
		},
	)

	seatStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seat_streams_open",
			Help: "Live seat map streams currently connected",
		},
	)

	reservationCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_commits_total",
			Help: "Reservation commit attempts by outcome",
		},
		[]string{"outcome"},
	)

	seatsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seats_booked_total",
			Help: "Seats sold through successful commits",
		},
	)

	scheduleConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_conflicts_detected_total",
			Help: "Overlapping screening pairs found before a schedule write",
		},
		[]string{"source"},
	)

	showtimesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "showtimes_created_total",
			Help: "Showtimes written by bulk generation",
		},
		[]string{"forced"},
	)

	changeNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "change_notifications_total",
			Help: "Change feed messages by table and direction",
		},
		[]string{"table", "direction"},
	)

	showtimesDeactivated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "showtimes_deactivated_total",
			Help: "Showtimes switched off by housekeeping after they ended",
		},
	)
)

// Commit outcomes.
const (
	OutcomeBooked      = "booked"
	OutcomeSeatTaken   = "seat_taken"
	OutcomeInvalid     = "invalid"
	OutcomeInFlight    = "in_flight"
	OutcomeUnavailable = "unavailable"
)

func ObserveHTTP(method, route, status string, d time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func PanicRecovered() {
	httpPanics.Inc()
}

// SeatStreamOpened counts a live stream; call the returned func when it ends.
func SeatStreamOpened() func() {
	seatStreams.Inc()
	return seatStreams.Dec
}

func ReservationCommit(outcome string, seats int) {
	reservationCommits.WithLabelValues(outcome).Inc()
	if outcome == OutcomeBooked {
		seatsBooked.Add(float64(seats))
	}
}

func ScheduleConflicts(source string, n int) {
	if n > 0 {
		scheduleConflicts.WithLabelValues(source).Add(float64(n))
	}
}

func ShowtimesCreated(n int, forced bool) {
	label := "false"
	if forced {
		label = "true"
	}
	showtimesCreated.WithLabelValues(label).Add(float64(n))
}

func ChangePublished(table string) {
	changeNotifications.WithLabelValues(table, "published").Inc()
}

func ChangeReceived(table string) {
	changeNotifications.WithLabelValues(table, "received").Inc()
}

func ShowtimesDeactivated(n int64) {
	showtimesDeactivated.Add(float64(n))
}
