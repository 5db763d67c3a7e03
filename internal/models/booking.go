package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// Booking is a stay over the half-open range [CheckIn, CheckOut).
// RatePerNight is a snapshot of the room rate at booking time; the room's
// own price may change afterwards without affecting existing bookings.
type Booking struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Reference     string          `gorm:"uniqueIndex;not null" json:"reference"`
	GuestID       uint            `gorm:"not null" json:"guest_id"`
	RoomID        uint            `gorm:"not null;index" json:"room_id"`
	CheckIn       time.Time       `gorm:"not null" json:"check_in"`
	CheckOut      time.Time       `gorm:"not null" json:"check_out"`
	Source        string          `json:"source"`
	InternalNotes string          `json:"internal_notes,omitempty"`
	RatePerNight  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"rate_per_night"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status        BookingStatus   `gorm:"type:varchar(20);not null;default:'CONFIRMED'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Guest    *Guest    `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Payments []Payment `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// TotalPaid sums every ledger entry on the booking.
func (b *Booking) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Payments {
		total = total.Add(p.AmountPaid)
	}
	return total
}

// Balance is what remains to be collected. A negative balance is a valid
// overpayment signal and is never clamped.
func (b *Booking) Balance() decimal.Decimal {
	return b.TotalAmount.Sub(b.TotalPaid())
}

// AdvancePayment returns the booking's ADVANCE ledger entry, if one exists.
// A booking carries at most one; updates amend it rather than appending.
func (b *Booking) AdvancePayment() *Payment {
	for i := range b.Payments {
		if b.Payments[i].Kind == PaymentAdvance {
			return &b.Payments[i]
		}
	}
	return nil
}
