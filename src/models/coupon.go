package models

import (
	"time"

	"tbs/src/types"
)

type Coupon struct {
	ID            uint               `gorm:"primarykey" json:"id"`
	Code          string             `gorm:"uniqueIndex" json:"code"`
	DiscountType  types.DiscountType `json:"discount_type"`
	DiscountValue float64            `json:"discount_value"`
	MinSubtotal   float64            `json:"min_subtotal"`
	TripID        *uint              `json:"trip_id,omitempty"`
	StartsAt      *time.Time         `json:"starts_at,omitempty"`
	EndsAt        *time.Time         `json:"ends_at,omitempty"`
	UsageLimit    uint               `json:"usage_limit"`
	PerEmailLimit uint               `json:"per_email_limit"`
	UsedCount     uint               `json:"used_count"`
	Active        bool               `gorm:"default:true" json:"active"`

	types.Timestamps
}

// CouponRedemption is written in the same transaction as the Booking insert
// so the usage caps hold under concurrent checkouts.
type CouponRedemption struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CouponID  uint   `gorm:"index" json:"coupon_id"`
	BookingID uint   `json:"booking_id"`
	Email     string `gorm:"index" json:"email"`

	Coupon Coupon `json:"-"`

	types.Timestamps
}
