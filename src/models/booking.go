package models

import (
	"time"

	"tbs/src/types"
)

type Booking struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	TripID        uint       `json:"trip_id"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`

	Travellers       types.JSONBArray `gorm:"type:jsonb" json:"travellers,omitempty"`
	PaymentBreakdown types.JSONBArray `gorm:"type:jsonb" json:"payment_breakdown,omitempty"`

	Subtotal       float64              `json:"subtotal"`
	DiscountAmount float64              `json:"discount_amount"`
	DiscountSource types.DiscountSource `gorm:"default:'none'" json:"discount_source"`
	TaxAmount      float64              `json:"tax_amount"`
	TotalAmount    float64              `json:"total_amount"`
	PayableNow     float64              `json:"payable_now"`
	DueAmount      float64              `json:"due_amount"`
	PaymentMode    types.PaymentMode    `gorm:"default:'full'" json:"payment_mode"`

	CouponCode     *string      `json:"coupon_code,omitempty"`
	CouponSnapshot *types.JSONB `gorm:"type:jsonb" json:"coupon_snapshot,omitempty"`

	Name     string `json:"name"`
	Email    string `gorm:"index" json:"email"`
	Phone    string `json:"phone,omitempty"`
	Currency string `gorm:"default:'INR'" json:"currency,omitempty"`

	PaymentStatus    types.PaymentStatus `gorm:"default:'pending';index" json:"payment_status"`
	PayuTxnID        string              `gorm:"index" json:"payu_txnid,omitempty"`
	GatewayPaymentID *string             `json:"gateway_payment_id,omitempty"`

	Trip     Trip             `json:"-"`
	Attempts []PaymentAttempt `json:"attempts,omitempty"`

	types.Timestamps
}
