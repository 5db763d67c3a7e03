package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentKind string

const (
	PaymentAdvance    PaymentKind = "ADVANCE"
	PaymentSettlement PaymentKind = "SETTLEMENT"
)

// Payment is one ledger entry owned by exactly one booking and removed
// with it. PendingAmount is the balance outstanding at the time the entry
// was written, not a live figure.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	BookingID     uint            `gorm:"not null;index" json:"booking_id"`
	Kind          PaymentKind     `gorm:"type:varchar(20);not null" json:"kind"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount_paid"`
	PendingAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"pending_amount"`
	Method        string          `json:"method,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
	Extras        datatypes.JSON  `json:"extras,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
