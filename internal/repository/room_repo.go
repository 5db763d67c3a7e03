package repository

import (
	"context"

	"github.com/karunavilla/booking-system/internal/models"
	"gorm.io/gorm"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByNumber(ctx context.Context, number string) (*models.Room, error)
	FindByNumberForUpdate(ctx context.Context, tx *gorm.DB, number string) (*models.Room, error)
	FindAll(ctx context.Context) ([]models.Room, error)
	Save(ctx context.Context, tx *gorm.DB, room *models.Room) error
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) FindByNumber(ctx context.Context, number string) (*models.Room, error) {
	var room models.Room
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("room_number = ?", number).First(&room).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByNumberForUpdate acquires a row-level lock on the room within the
// given transaction. Concurrent check-then-book sequences for the same room
// serialize here; different rooms never block each other.
func (r *roomRepository) FindByNumberForUpdate(ctx context.Context, tx *gorm.DB, number string) (*models.Room, error) {
	var room models.Room
	if err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		Where("room_number = ?", number).
		First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindAll(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Order("room_number ASC").Find(&rooms).Error
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) Save(ctx context.Context, tx *gorm.DB, room *models.Room) error {
	return tx.WithContext(ctx).Save(room).Error
}
