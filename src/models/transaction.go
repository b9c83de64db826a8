package models

import (
	"tbs/src/types"

	"github.com/google/uuid"
)

// PaymentAttempt tracks every gateway transaction id issued for a booking.
// A retry creates a new row; the original booking amounts are never mutated.
type PaymentAttempt struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	BookingID        uint                `gorm:"index" json:"booking_id"`
	TxnID            string              `gorm:"index" json:"txnid"`
	Amount           float64             `json:"amount"`
	Currency         string              `json:"currency,omitempty"`
	Status           types.AttemptStatus `gorm:"default:'pending'" json:"status"`
	GatewayPaymentID *string             `json:"gateway_payment_id,omitempty"`
	Metadata         *types.JSONB        `gorm:"type:jsonb" json:"metadata,omitempty"`

	types.Timestamps

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`
}
