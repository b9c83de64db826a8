package pricing

import (
	"strings"
	"time"

	"tbs/src/models"
	"tbs/src/types"
)

// NormalizeCouponCode canonicalizes a user-entered code for lookup.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type CouponResult struct {
	Valid          bool               `json:"valid"`
	Message        string             `json:"message,omitempty"`
	DiscountType   types.DiscountType `json:"discount_type,omitempty"`
	DiscountValue  float64            `json:"discount_value,omitempty"`
	DiscountAmount float64            `json:"discount_amount"`
	MinSubtotal    float64            `json:"min_subtotal,omitempty"`
	Snapshot       *types.JSONB       `json:"-"`
}

func invalidCoupon(message string) *CouponResult {
	return &CouponResult{Valid: false, Message: message}
}

// EvaluateCoupon checks a coupon against a trip and subtotal and computes
// the capped discount amount. It is a pure read: redemption accounting
// happens only when a booking is committed. emailRedemptions is the number
// of prior redemptions recorded for the customer's email.
func EvaluateCoupon(c *models.Coupon, tripID uint, subtotal float64, emailRedemptions uint, now time.Time) *CouponResult {
	if c == nil {
		return invalidCoupon("coupon code does not exist")
	}
	if !c.Active {
		return invalidCoupon("coupon is no longer active")
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return invalidCoupon("coupon is not active yet")
	}
	if c.EndsAt != nil && !now.Before(*c.EndsAt) {
		return invalidCoupon("coupon has expired")
	}
	if c.TripID != nil && *c.TripID != tripID {
		return invalidCoupon("coupon is not applicable to this trip")
	}
	if subtotal < c.MinSubtotal {
		return invalidCoupon("subtotal is below the coupon minimum")
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return invalidCoupon("coupon usage limit has been reached")
	}
	if c.PerEmailLimit > 0 && emailRedemptions >= c.PerEmailLimit {
		return invalidCoupon("coupon usage limit for this email has been reached")
	}

	var amount float64
	if c.DiscountType == types.DISCOUNT_PERCENT {
		amount = subtotal * c.DiscountValue / 100
	} else {
		amount = c.DiscountValue
	}
	if amount < 0 {
		amount = 0
	}
	if amount > subtotal {
		amount = subtotal
	}
	amount = Round2(amount)

	snapshot := types.JSONB{
		"code":           c.Code,
		"discount_type":  string(c.DiscountType),
		"discount_value": c.DiscountValue,
		"min_subtotal":   c.MinSubtotal,
	}
	return &CouponResult{
		Valid:          true,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		DiscountAmount: amount,
		MinSubtotal:    c.MinSubtotal,
		Snapshot:       &snapshot,
	}
}
