//go:build integration

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/karunavilla/booking-system/internal/models"
	"github.com/karunavilla/booking-system/internal/repository"
	"github.com/karunavilla/booking-system/internal/scheduler"
	"github.com/karunavilla/booking-system/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createTestRoom(t *testing.T, number string, rate int64) *models.Room {
	t.Helper()
	room := &models.Room{
		RoomNumber:    number,
		RoomName:      "Room " + number,
		Category:      "Standard",
		PricePerNight: decimal.NewFromInt(rate),
		Status:        models.RoomAvailable,
	}
	require.NoError(t, testDB.Create(room).Error)
	return room
}

func newBookingService() service.BookingService {
	roomRepo := repository.NewRoomRepository(testDB)
	guestRepo := repository.NewGuestRepository(testDB)
	bookingRepo := repository.NewBookingRepository(testDB)
	return service.NewBookingService(bookingRepo, roomRepo, guestRepo, nil)
}

func createInput(room string, checkIn, checkOut time.Time) service.CreateBookingInput {
	return service.CreateBookingInput{
		FullName:     "Asha Nair",
		MobileNumber: "9876543210",
		RoomNumber:   room,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		RatePerNight: decimal.NewFromInt(100),
		Source:       "walk-in",
	}
}

// 20 callers race for the same room and fully overlapping dates; exactly
// one booking must win.
func TestConcurrentCreate_SameRoomOneWinner(t *testing.T) {
	cleanTables()
	createTestRoom(t, "101", 100)
	svc := newBookingService()

	callers := 20
	var wg sync.WaitGroup
	errs := make(chan error, callers)

	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), createInput("101", day(2025, 12, 30), day(2026, 1, 1)))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case assert.ErrorIs(t, err, service.ErrRoomUnavailable):
			conflicted++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, callers-1, conflicted)

	var count int64
	testDB.Model(&models.Booking{}).Where("status = ?", models.StatusConfirmed).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreate_BoundaryDatesDoNotConflict(t *testing.T) {
	cleanTables()
	createTestRoom(t, "101", 100)
	svc := newBookingService()

	_, err := svc.CreateBooking(context.Background(), createInput("101", day(2025, 12, 30), day(2025, 12, 31)))
	require.NoError(t, err)

	// Back-to-back stay starting on the checkout day must be accepted.
	_, err = svc.CreateBooking(context.Background(), createInput("101", day(2025, 12, 31), day(2026, 1, 1)))
	require.NoError(t, err)

	// Availability for the vacated night includes the room again.
	free, err := svc.AvailableRooms(context.Background(), day(2026, 1, 1), day(2026, 1, 2))
	require.NoError(t, err)
	assert.Len(t, free, 1)
}

func TestUpdate_OwnDatesDoNotSelfConflict(t *testing.T) {
	cleanTables()
	createTestRoom(t, "101", 100)
	svc := newBookingService()

	booking, err := svc.CreateBooking(context.Background(), createInput("101", day(2025, 12, 28), day(2025, 12, 31)))
	require.NoError(t, err)

	// Shift checkout one day while still overlapping the original range.
	newOut := day(2026, 1, 1)
	updated, err := svc.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingInput{
		CheckOut: &newOut,
	})
	require.NoError(t, err)
	assert.True(t, updated.CheckOut.Equal(newOut))
	// 4 nights at 100 now.
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(400)), "got %s", updated.TotalAmount)
}

func TestUpdate_RoomChangeChecksProposedRoom(t *testing.T) {
	cleanTables()
	createTestRoom(t, "101", 100)
	createTestRoom(t, "102", 100)
	svc := newBookingService()

	_, err := svc.CreateBooking(context.Background(), createInput("102", day(2025, 12, 30), day(2026, 1, 1)))
	require.NoError(t, err)

	booking, err := svc.CreateBooking(context.Background(), createInput("101", day(2025, 12, 30), day(2026, 1, 1)))
	require.NoError(t, err)

	// Moving to 102 must hit the conflict in the proposed room.
	target := "102"
	_, err = svc.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingInput{
		RoomNumber: &target,
	})
	assert.ErrorIs(t, err, service.ErrRoomUnavailable)

	// The original room keeps its display flag: conflict checks must not
	// have side effects.
	var room models.Room
	require.NoError(t, testDB.Where("room_number = ?", "101").First(&room).Error)
	assert.Equal(t, models.RoomBooked, room.Status)
}

func TestCancelled_NeverBlocksAvailability(t *testing.T) {
	cleanTables()
	createTestRoom(t, "101", 100)
	svc := newBookingService()

	booking, err := svc.CreateBooking(context.Background(), createInput("101", day(2025, 12, 30), day(2026, 1, 1)))
	require.NoError(t, err)

	_, err = svc.CancelBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	free, err := svc.AvailableRooms(context.Background(), day(2025, 12, 30), day(2026, 1, 1))
	require.NoError(t, err)
	assert.Len(t, free, 1)

	// Still queryable by id with CANCELLED status.
	got, err := svc.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	// And the slot is rebookable.
	_, err = svc.CreateBooking(context.Background(), createInput("101", day(2025, 12, 30), day(2026, 1, 1)))
	require.NoError(t, err)
}

func TestDelete_GuestRemovedWithLastBooking(t *testing.T) {
	cleanTables()
	createTestRoom(t, "101", 100)
	createTestRoom(t, "102", 100)
	svc := newBookingService()

	first, err := svc.CreateBooking(context.Background(), createInput("101", day(2025, 12, 30), day(2026, 1, 1)))
	require.NoError(t, err)

	// Same guest details, but bookings create guests independently; move
	// the second booking onto the first guest to model a repeat guest.
	second, err := svc.CreateBooking(context.Background(), createInput("102", day(2025, 12, 30), day(2026, 1, 1)))
	require.NoError(t, err)
	require.NoError(t, testDB.Model(&models.Booking{}).
		Where("id = ?", second.ID).
		Update("guest_id", first.GuestID).Error)
	testDB.Delete(&models.Guest{}, second.GuestID)

	// Deleting one of two bookings retains the guest.
	require.NoError(t, svc.DeleteBooking(context.Background(), second.ID))
	var guests int64
	testDB.Model(&models.Guest{}).Where("id = ?", first.GuestID).Count(&guests)
	assert.Equal(t, int64(1), guests)

	// Deleting the last booking removes the guest and cascades payments.
	require.NoError(t, svc.DeleteBooking(context.Background(), first.ID))
	testDB.Model(&models.Guest{}).Where("id = ?", first.GuestID).Count(&guests)
	assert.Equal(t, int64(0), guests)
}

func TestCreate_AdvanceLedgerEntry(t *testing.T) {
	cleanTables()
	createTestRoom(t, "101", 100)
	svc := newBookingService()

	advance := decimal.NewFromInt(50)
	in := createInput("101", day(2025, 12, 30), day(2026, 1, 1))
	in.AdvanceAmount = &advance
	in.PaymentMethod = "upi"
	in.AdditionalCharges = []service.Charge{{Category: "minibar", Amount: decimal.NewFromInt(25)}}

	booking, err := svc.CreateBooking(context.Background(), in)
	require.NoError(t, err)

	// 2 nights x 100 + 25 = 225; pending = 225 - 50.
	assert.True(t, booking.TotalAmount.Equal(decimal.NewFromInt(225)))
	require.Len(t, booking.Payments, 1)
	assert.Equal(t, models.PaymentAdvance, booking.Payments[0].Kind)
	assert.True(t, booking.Payments[0].PendingAmount.Equal(decimal.NewFromInt(175)))

	// Amending the advance updates the entry in place, never duplicates.
	newAdvance := decimal.NewFromInt(100)
	updated, err := svc.UpdateBooking(context.Background(), booking.ID, service.UpdateBookingInput{
		AdvanceAmount: &newAdvance,
	})
	require.NoError(t, err)
	require.Len(t, updated.Payments, 1)
	assert.True(t, updated.Payments[0].AmountPaid.Equal(newAdvance))
	assert.True(t, updated.Payments[0].PendingAmount.Equal(decimal.NewFromInt(125)))
}

func TestReconciler_ReleasesStaleDisplayFlags(t *testing.T) {
	cleanTables()
	room := createTestRoom(t, "101", 100)
	svc := newBookingService()

	_, err := svc.CreateBooking(context.Background(), createInput("101", day(2025, 12, 28), day(2025, 12, 30)))
	require.NoError(t, err)

	require.NoError(t, testDB.First(room, room.ID).Error)
	require.Equal(t, models.RoomBooked, room.Status)

	roomRepo := repository.NewRoomRepository(testDB)
	bookingRepo := repository.NewBookingRepository(testDB)
	clock := func() time.Time { return day(2026, 1, 15) } // well past checkout
	rec := scheduler.NewReconciler(bookingRepo, roomRepo, 0, clock)
	rec.RunOnce(context.Background())

	require.NoError(t, testDB.First(room, room.ID).Error)
	assert.Equal(t, models.RoomAvailable, room.Status)

	// The sweep never touches booking status.
	var confirmedCount int64
	testDB.Model(&models.Booking{}).Where("status = ?", models.StatusConfirmed).Count(&confirmedCount)
	assert.Equal(t, int64(1), confirmedCount)
}
