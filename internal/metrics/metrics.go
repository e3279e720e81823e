package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    bookingCreated = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "boxrent",
            Name:      "booking_created_total",
            Help:      "Count of bookings created by initial status.",
        },
        []string{"status"},
    )

    bookingFailed = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "boxrent",
            Name:      "booking_failed_total",
            Help:      "Count of booking creations rolled back by reason.",
        },
        []string{"reason"},
    )

    extensionRequested = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "boxrent",
            Name:      "extension_requested_total",
            Help:      "Count of extension requests by outcome.",
        },
        []string{"outcome"},
    )

    bookingReassigned = prometheus.NewCounter(
        prometheus.CounterOpts{
            Namespace: "boxrent",
            Name:      "booking_reassigned_total",
            Help:      "Count of bookings moved to an alternate box during extensions.",
        },
    )

    pinIssueDuration = prometheus.NewHistogram(
        prometheus.HistogramOpts{
            Namespace: "boxrent",
            Name:      "pin_issue_duration_seconds",
            Help:      "Time spent obtaining a PIN from the lock provider.",
            Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10},
        },
    )
)

// Register registers metrics (idempotent).
func Register() {
    once.Do(func() {
        prometheus.MustRegister(bookingCreated, bookingFailed, extensionRequested, bookingReassigned, pinIssueDuration)
    })
}

func IncBookingCreated(status string) {
    bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingFailed(reason string) {
    bookingFailed.WithLabelValues(reason).Inc()
}

func IncExtensionRequested(outcome string) {
    extensionRequested.WithLabelValues(outcome).Inc()
}

func IncBookingReassigned() {
    bookingReassigned.Inc()
}

func ObservePinIssueDuration(seconds float64) {
    pinIssueDuration.Observe(seconds)
}
