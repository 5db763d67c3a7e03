package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karunavilla/booking-system/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubBookingRepo struct {
	expired   []models.Booking
	queryErr  error
	sawNow    time.Time
	statusSet []models.BookingStatus
}

func (s *stubBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	return nil
}
func (s *stubBookingRepo) Save(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	s.statusSet = append(s.statusSet, b.Status)
	return nil
}
func (s *stubBookingRepo) Delete(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	return nil
}
func (s *stubBookingRepo) SavePayment(ctx context.Context, tx *gorm.DB, p *models.Payment) error {
	return nil
}
func (s *stubBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubBookingRepo) FindAll(ctx context.Context) ([]models.Booking, error) { return nil, nil }
func (s *stubBookingRepo) FindConfirmedOverlapping(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (s *stubBookingRepo) FindConfirmedOverlappingForRoom(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
	return nil, nil
}
func (s *stubBookingRepo) FindExpiredWithBookedRoom(ctx context.Context, now time.Time) ([]models.Booking, error) {
	s.sawNow = now
	return s.expired, s.queryErr
}
func (s *stubBookingRepo) GetDB() *gorm.DB { return nil }

type stubRoomRepo struct {
	saved   []models.Room
	failFor string
}

func (s *stubRoomRepo) Create(ctx context.Context, room *models.Room) error { return nil }
func (s *stubRoomRepo) FindByNumber(ctx context.Context, number string) (*models.Room, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubRoomRepo) FindByNumberForUpdate(ctx context.Context, tx *gorm.DB, number string) (*models.Room, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubRoomRepo) FindAll(ctx context.Context) ([]models.Room, error) { return nil, nil }
func (s *stubRoomRepo) Save(ctx context.Context, tx *gorm.DB, room *models.Room) error {
	if room.RoomNumber == s.failFor {
		return errors.New("write refused")
	}
	s.saved = append(s.saved, *room)
	return nil
}

func expiredBooking(id uint, roomNumber string) models.Booking {
	return models.Booking{
		ID:       id,
		Status:   models.StatusConfirmed,
		CheckOut: time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC),
		Room: &models.Room{
			RoomNumber: roomNumber,
			Status:     models.RoomBooked,
		},
	}
}

func TestRunOnce_ReleasesExpiredRooms(t *testing.T) {
	fixedNow := time.Date(2025, 12, 25, 12, 0, 0, 0, time.UTC)
	bookings := &stubBookingRepo{expired: []models.Booking{
		expiredBooking(1, "101"),
		expiredBooking(2, "102"),
	}}
	rooms := &stubRoomRepo{}

	r := NewReconciler(bookings, rooms, 0, func() time.Time { return fixedNow })
	r.RunOnce(context.Background())

	assert.Equal(t, fixedNow, bookings.sawNow, "sweep should use the injected clock")
	assert.Len(t, rooms.saved, 2)
	for _, room := range rooms.saved {
		assert.Equal(t, models.RoomAvailable, room.Status)
	}
	// The sweep repairs the display flag only; booking rows stay untouched.
	assert.Empty(t, bookings.statusSet)
}

func TestRunOnce_ContinuesPastRowFailures(t *testing.T) {
	bookings := &stubBookingRepo{expired: []models.Booking{
		expiredBooking(1, "101"),
		expiredBooking(2, "102"),
		expiredBooking(3, "103"),
	}}
	rooms := &stubRoomRepo{failFor: "102"}

	r := NewReconciler(bookings, rooms, 0, nil)
	r.RunOnce(context.Background())

	// 101 and 103 still released despite 102 failing.
	assert.Len(t, rooms.saved, 2)
	assert.Equal(t, "101", rooms.saved[0].RoomNumber)
	assert.Equal(t, "103", rooms.saved[1].RoomNumber)
}

func TestRunOnce_QueryFailureAborts(t *testing.T) {
	bookings := &stubBookingRepo{queryErr: errors.New("connection refused")}
	rooms := &stubRoomRepo{}

	r := NewReconciler(bookings, rooms, 0, nil)
	r.RunOnce(context.Background())

	assert.Empty(t, rooms.saved)
}

func TestStartStop(t *testing.T) {
	bookings := &stubBookingRepo{}
	rooms := &stubRoomRepo{}

	r := NewReconciler(bookings, rooms, time.Hour, nil)
	r.Start(context.Background())
	r.Stop()
}
