package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomStatus is a display-only projection for the front desk. Booking
// conflicts are always decided by the overlap query over confirmed
// bookings, never by this flag.
type RoomStatus string

const (
	RoomAvailable    RoomStatus = "AVAILABLE"
	RoomBooked       RoomStatus = "BOOKED"
	RoomDirty        RoomStatus = "DIRTY"
	RoomOutOfService RoomStatus = "OUT_OF_SERVICE"
)

type Room struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	RoomNumber    string          `gorm:"uniqueIndex;not null" json:"room_number"`
	RoomName      string          `json:"room_name"`
	Category      string          `json:"category"`
	PricePerNight decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_per_night"`
	Status        RoomStatus      `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
