// Package scheduler runs the expiry reconciler: a periodic sweep that
// repairs drift in the display-only room status flag. Availability never
// consults that flag, so the sweep commutes with concurrent bookings.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/karunavilla/booking-system/internal/metrics"
	"github.com/karunavilla/booking-system/internal/models"
	"github.com/karunavilla/booking-system/internal/repository"
)

const DefaultInterval = 4 * time.Minute

type Reconciler struct {
	bookingRepo repository.BookingRepository
	roomRepo    repository.RoomRepository
	interval    time.Duration
	now         func() time.Time
	stop        chan struct{}
	done        chan struct{}
}

// NewReconciler builds a reconciler with an injectable clock; pass nil to
// use time.Now.
func NewReconciler(
	bookingRepo repository.BookingRepository,
	roomRepo repository.RoomRepository,
	interval time.Duration,
	now func() time.Time,
) *Reconciler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Reconciler{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		interval:    interval,
		now:         now,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the periodic sweep. The host process owns the lifecycle:
// call Stop (or cancel ctx) on shutdown.
func (r *Reconciler) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		log.Printf("[Reconciler] sweeping every %s", r.interval)
		for {
			select {
			case <-ticker.C:
				r.RunOnce(ctx)
			case <-ctx.Done():
				return
			case <-r.stop:
				return
			}
		}
	}()
}

func (r *Reconciler) Stop() {
	close(r.stop)
	<-r.done
}

// RunOnce performs a single sweep: every confirmed booking already past
// checkout whose room still shows BOOKED gets its room flag reset to
// AVAILABLE. Row failures are logged and skipped so one bad room cannot
// stall the rest of the sweep. Booking status is never touched here.
func (r *Reconciler) RunOnce(ctx context.Context) {
	metrics.ReconcilerSweeps.Inc()

	expired, err := r.bookingRepo.FindExpiredWithBookedRoom(ctx, r.now())
	if err != nil {
		log.Printf("[Reconciler] query expired bookings: %v", err)
		return
	}

	for _, booking := range expired {
		room := booking.Room
		if room == nil {
			continue
		}
		room.Status = models.RoomAvailable
		if err := r.roomRepo.Save(ctx, r.bookingRepo.GetDB(), room); err != nil {
			log.Printf("[Reconciler] release room %s: %v", room.RoomNumber, err)
			continue
		}
		metrics.ReconcilerRoomsReleased.Inc()
		log.Printf("[Reconciler] released room %s (booking %d checked out %s)",
			room.RoomNumber, booking.ID, booking.CheckOut.Format("2006-01-02"))
	}
}
