package dto

import "github.com/shopspring/decimal"

// Dates travel as "YYYY-MM-DD" strings and are pinned to UTC midnight by
// the handler before they reach the service.

type AdditionalCharge struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type CreateBookingRequest struct {
	FullName          string             `json:"full_name" validate:"required"`
	Email             string             `json:"email" validate:"omitempty,email"`
	MobileNumber      string             `json:"mobile_number" validate:"required"`
	RoomNumber        string             `json:"room_number" validate:"required"`
	CheckIn           string             `json:"check_in" validate:"required"`
	CheckOut          string             `json:"check_out" validate:"required"`
	RatePerNight      decimal.Decimal    `json:"rate_per_night"`
	Source            string             `json:"source"`
	InternalNotes     string             `json:"internal_notes"`
	AdvanceAmount     *decimal.Decimal   `json:"advance_amount,omitempty"`
	PaymentMethod     string             `json:"payment_method"`
	AdditionalCharges []AdditionalCharge `json:"additional_charges,omitempty"`
}

// UpdateBookingRequest carries only the fields being changed; nil means
// "keep the current value".
type UpdateBookingRequest struct {
	FullName          *string            `json:"full_name,omitempty"`
	Email             *string            `json:"email,omitempty"`
	MobileNumber      *string            `json:"mobile_number,omitempty"`
	RoomNumber        *string            `json:"room_number,omitempty"`
	CheckIn           *string            `json:"check_in,omitempty"`
	CheckOut          *string            `json:"check_out,omitempty"`
	RatePerNight      *decimal.Decimal   `json:"rate_per_night,omitempty"`
	Source            *string            `json:"source,omitempty"`
	InternalNotes     *string            `json:"internal_notes,omitempty"`
	AdvanceAmount     *decimal.Decimal   `json:"advance_amount,omitempty"`
	PaymentMethod     *string            `json:"payment_method,omitempty"`
	AdditionalCharges []AdditionalCharge `json:"additional_charges,omitempty"`
}

type CreateRoomRequest struct {
	RoomNumber    string          `json:"room_number" validate:"required"`
	RoomName      string          `json:"room_name"`
	Category      string          `json:"category"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
}
