package dto

import (
	"time"

	"github.com/karunavilla/booking-system/internal/models"
	"github.com/shopspring/decimal"
)

type BookingSummaryResponse struct {
	ID            uint                 `json:"id"`
	Reference     string               `json:"reference"`
	Guest         string               `json:"guest"`
	ContactNumber string               `json:"contact_number"`
	Room          string               `json:"room"`
	CheckIn       time.Time            `json:"check_in"`
	CheckOut      time.Time            `json:"check_out"`
	Source        string               `json:"source"`
	Status        models.BookingStatus `json:"status"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	TotalPaid     decimal.Decimal      `json:"total_paid"`
	Balance       decimal.Decimal      `json:"balance"`
}

type PaymentResponse struct {
	ID            uint               `json:"id"`
	Kind          models.PaymentKind `json:"kind"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	PendingAmount decimal.Decimal    `json:"pending_amount"`
	Method        string             `json:"method,omitempty"`
	PaidAt        time.Time          `json:"paid_at"`
}

type BookingDetailResponse struct {
	ID            uint                 `json:"id"`
	Reference     string               `json:"reference"`
	FullName      string               `json:"full_name"`
	Email         string               `json:"email,omitempty"`
	MobileNumber  string               `json:"mobile_number"`
	RoomNumber    string               `json:"room_number"`
	CheckIn       time.Time            `json:"check_in"`
	CheckOut      time.Time            `json:"check_out"`
	Source        string               `json:"source"`
	InternalNotes string               `json:"internal_notes,omitempty"`
	RatePerNight  decimal.Decimal      `json:"rate_per_night"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	TotalPaid     decimal.Decimal      `json:"total_paid"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        models.BookingStatus `json:"status"`
	Payments      []PaymentResponse    `json:"payments,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

type RoomResponse struct {
	ID            uint              `json:"id"`
	RoomNumber    string            `json:"room_number"`
	RoomName      string            `json:"room_name,omitempty"`
	Category      string            `json:"category,omitempty"`
	PricePerNight decimal.Decimal   `json:"price_per_night"`
	Status        models.RoomStatus `json:"status"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingSummary(b *models.Booking) BookingSummaryResponse {
	resp := BookingSummaryResponse{
		ID:          b.ID,
		Reference:   b.Reference,
		CheckIn:     b.CheckIn,
		CheckOut:    b.CheckOut,
		Source:      b.Source,
		Status:      b.Status,
		TotalAmount: b.TotalAmount,
		TotalPaid:   b.TotalPaid(),
		Balance:     b.Balance(),
	}
	if b.Guest != nil {
		resp.Guest = b.Guest.FullName
		resp.ContactNumber = b.Guest.MobileNumber
	}
	if b.Room != nil {
		resp.Room = b.Room.RoomNumber
	}
	return resp
}

func ToBookingDetail(b *models.Booking) BookingDetailResponse {
	resp := BookingDetailResponse{
		ID:            b.ID,
		Reference:     b.Reference,
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		Source:        b.Source,
		InternalNotes: b.InternalNotes,
		RatePerNight:  b.RatePerNight,
		TotalAmount:   b.TotalAmount,
		TotalPaid:     b.TotalPaid(),
		Balance:       b.Balance(),
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
	}
	if b.Guest != nil {
		resp.FullName = b.Guest.FullName
		resp.Email = b.Guest.Email
		resp.MobileNumber = b.Guest.MobileNumber
	}
	if b.Room != nil {
		resp.RoomNumber = b.Room.RoomNumber
	}
	for _, p := range b.Payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			ID:            p.ID,
			Kind:          p.Kind,
			AmountPaid:    p.AmountPaid,
			PendingAmount: p.PendingAmount,
			Method:        p.Method,
			PaidAt:        p.PaidAt,
		})
	}
	return resp
}

func ToRoomResponse(r *models.Room) RoomResponse {
	return RoomResponse{
		ID:            r.ID,
		RoomNumber:    r.RoomNumber,
		RoomName:      r.RoomName,
		Category:      r.Category,
		PricePerNight: r.PricePerNight,
		Status:        r.Status,
	}
}
