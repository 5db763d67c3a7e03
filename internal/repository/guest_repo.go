package repository

import (
	"context"

	"github.com/karunavilla/booking-system/internal/models"
	"gorm.io/gorm"
)

type GuestRepository interface {
	Save(ctx context.Context, tx *gorm.DB, guest *models.Guest) error
	Delete(ctx context.Context, tx *gorm.DB, guest *models.Guest) error
	CountBookings(ctx context.Context, tx *gorm.DB, guestID uint) (int64, error)
}

type guestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) GuestRepository {
	return &guestRepository{db: db}
}

func (r *guestRepository) Save(ctx context.Context, tx *gorm.DB, guest *models.Guest) error {
	return tx.WithContext(ctx).Save(guest).Error
}

func (r *guestRepository) Delete(ctx context.Context, tx *gorm.DB, guest *models.Guest) error {
	return tx.WithContext(ctx).Delete(guest).Error
}

// CountBookings backs the guest lifecycle rule: a guest is removed exactly
// when their booking count reaches zero. The count is an explicit query so
// the rule is testable rather than hidden in cascade behavior.
func (r *guestRepository) CountBookings(ctx context.Context, tx *gorm.DB, guestID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("guest_id = ?", guestID).
		Count(&count).Error
	return count, err
}
