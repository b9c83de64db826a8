package pricing

import (
	"math"

	"tbs/src/models"
	"tbs/src/types"
	"time"
)

// TAX_RATE is applied to the discounted subtotal.
const TAX_RATE = 0.02

// Round2 rounds to 2 decimal places. The epsilon keeps values like 1.005,
// which have no exact binary representation, from truncating down a cent.
// Non-finite input coerces to 0 so money math stays total.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Round((x+1e-9)*100) / 100
}

// EarlyBirdAmount computes the early-bird discount for a single variant at
// the given instant. The window is [starts_at, ends_at); an unset bound is
// unconstrained. The result is clamped to [0, min(price, max_amount)].
func EarlyBirdAmount(v *models.PricingVariant, now time.Time) float64 {
	if !v.EarlyBirdEnabled {
		return 0
	}
	if v.EarlyBirdStartsAt != nil && now.Before(*v.EarlyBirdStartsAt) {
		return 0
	}
	if v.EarlyBirdEndsAt != nil && !now.Before(*v.EarlyBirdEndsAt) {
		return 0
	}
	var amount float64
	if v.EarlyBirdType == types.DISCOUNT_PERCENT {
		amount = v.UnitPrice * v.EarlyBirdValue / 100
	} else {
		amount = v.EarlyBirdValue
	}
	if amount <= 0 {
		return 0
	}
	limit := v.UnitPrice
	if v.EarlyBirdMaxAmount != nil && *v.EarlyBirdMaxAmount < limit {
		limit = *v.EarlyBirdMaxAmount
	}
	if limit < 0 {
		limit = 0
	}
	if amount > limit {
		amount = limit
	}
	return Round2(amount)
}

type Quote struct {
	Subtotal          float64              `json:"subtotal"`
	EarlyBirdDiscount float64              `json:"early_bird_discount"`
	CouponDiscount    float64              `json:"coupon_discount"`
	DiscountAmount    float64              `json:"discount_amount"`
	DiscountSource    types.DiscountSource `json:"discount_source"`
	TaxableAmount     float64              `json:"taxable_amount"`
	TaxAmount         float64              `json:"tax_amount"`
	TotalAmount       float64              `json:"total_amount"`
	PayableNow        float64              `json:"payable_now"`
	DueAmount         float64              `json:"due_amount"`
	LineItems         []LineItem           `json:"line_items"`
}

// BuildQuote arbitrates between the resolved early-bird discount and the
// coupon discount. The two never stack: the larger amount wins and a tie
// goes to the coupon since applying one is an explicit user action. Every
// intermediate value is rounded to 2 decimals before the next step.
func BuildQuote(res *Resolution, couponAmount float64, mode types.PaymentMode) *Quote {
	subtotal := Round2(res.Subtotal)
	earlyBird := Round2(res.EarlyBirdDiscount)
	coupon := Round2(couponAmount)

	q := &Quote{
		Subtotal:          subtotal,
		EarlyBirdDiscount: earlyBird,
		CouponDiscount:    coupon,
		DiscountSource:    types.DISCOUNT_SOURCE_NONE,
		LineItems:         res.LineItems,
	}
	switch {
	case coupon > 0 && coupon >= earlyBird:
		q.DiscountAmount = coupon
		q.DiscountSource = types.DISCOUNT_SOURCE_COUPON
	case earlyBird > 0:
		q.DiscountAmount = earlyBird
		q.DiscountSource = types.DISCOUNT_SOURCE_EARLY_BIRD
	}

	q.TaxableAmount = Round2(subtotal - q.DiscountAmount)
	if q.TaxableAmount < 0 {
		q.TaxableAmount = 0
	}
	q.TaxAmount = Round2(q.TaxableAmount * TAX_RATE)
	q.TotalAmount = Round2(q.TaxableAmount + q.TaxAmount)

	if mode == types.PAYMENT_MODE_PARTIAL_25 {
		// The deposit is 25% of the pre-discount subtotal, never more
		// than the total.
		payable := Round2(subtotal * 0.25)
		if payable < 0 {
			payable = 0
		}
		if payable > q.TotalAmount {
			payable = q.TotalAmount
		}
		q.PayableNow = payable
	} else {
		q.PayableNow = q.TotalAmount
	}
	due := Round2(q.TotalAmount - q.PayableNow)
	if due < 0 {
		due = 0
	}
	q.DueAmount = due
	return q
}

// PaymentBreakdown renders the quote as the ordered line-item list frozen
// onto the booking record.
func (q *Quote) PaymentBreakdown() types.JSONBArray {
	items := types.JSONBArray{}
	for _, li := range q.LineItems {
		items = append(items, map[string]any{
			"label":    li.Sharing,
			"amount":   li.UnitPrice,
			"quantity": 1,
		})
	}
	if q.DiscountAmount > 0 {
		items = append(items, map[string]any{
			"label":    string(q.DiscountSource),
			"amount":   -q.DiscountAmount,
			"quantity": 1,
		})
	}
	items = append(items, map[string]any{
		"label":    "tax",
		"amount":   q.TaxAmount,
		"quantity": 1,
	})
	return items
}
