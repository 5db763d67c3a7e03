// Package metrics exposes the service's Prometheus counters. Everything is
// registered via promauto on the default registry and served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Number of bookings created successfully.",
	})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_conflicts_total",
		Help: "Number of create/update attempts rejected because the room was unavailable.",
	})

	ReconcilerSweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciler_sweeps_total",
		Help: "Number of expiry reconciler sweeps executed.",
	})

	ReconcilerRoomsReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciler_rooms_released_total",
		Help: "Number of room display flags reset to AVAILABLE by the reconciler.",
	})
)
