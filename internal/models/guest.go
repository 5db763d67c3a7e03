package models

import "time"

// Guest records exist only for as long as they have bookings: one is
// created with each new booking and removed when its last booking is
// hard-deleted.
type Guest struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Email        string    `json:"email,omitempty"`
	MobileNumber string    `gorm:"not null" json:"mobile_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
