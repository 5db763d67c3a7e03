package repository

import (
	"context"
	"time"

	"github.com/karunavilla/booking-system/internal/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	Delete(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	SavePayment(ctx context.Context, tx *gorm.DB, payment *models.Payment) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
	FindConfirmedOverlapping(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	FindConfirmedOverlappingForRoom(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error)
	FindExpiredWithBookedRoom(ctx context.Context, now time.Time) ([]models.Booking, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Save(booking).Error
}

// Delete removes the booking row; payments go with it via the FK cascade.
func (r *bookingRepository) Delete(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Delete(booking).Error
}

// SavePayment writes a single ledger entry. Entries are managed explicitly
// rather than through association saves so that amend-in-place updates to
// the advance entry stay deterministic.
func (r *bookingRepository) SavePayment(ctx context.Context, tx *gorm.DB, payment *models.Payment) error {
	return tx.WithContext(ctx).Save(payment).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Preload("Guest").
			Preload("Room").
			Preload("Payments").
			First(&booking, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Preload("Guest").
			Preload("Room").
			Preload("Payments").
			Order("id ASC").
			Find(&bookings).Error
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindConfirmedOverlapping returns every confirmed booking whose stay
// intersects [start, end). The WHERE clause is the SQL rendition of
// interval.Overlaps; cancelled bookings never block availability.
func (r *bookingRepository) FindConfirmedOverlapping(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("check_in < ? AND check_out > ? AND status = ?", end, start, models.StatusConfirmed).
			Find(&bookings).Error
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindConfirmedOverlappingForRoom is the single-room conflict query used
// inside booking transactions. excludeID skips the booking being edited so
// a date change cannot conflict with itself; zero means no exclusion.
func (r *bookingRepository) FindConfirmedOverlappingForRoom(ctx context.Context, tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	q := tx.WithContext(ctx).
		Where("room_id = ? AND check_in < ? AND check_out > ? AND status = ?",
			roomID, end, start, models.StatusConfirmed)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindExpiredWithBookedRoom feeds the reconciler sweep: confirmed bookings
// already past checkout whose room still shows BOOKED.
func (r *bookingRepository) FindExpiredWithBookedRoom(ctx context.Context, now time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Joins("JOIN rooms ON rooms.id = bookings.room_id").
			Where("bookings.check_out < ? AND bookings.status = ? AND rooms.status = ?",
				now, models.StatusConfirmed, models.RoomBooked).
			Preload("Room").
			Find(&bookings).Error
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
