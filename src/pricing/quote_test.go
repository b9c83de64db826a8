package pricing

import (
	"math"
	"testing"
	"time"

	"tbs/src/models"
	"tbs/src/types"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 1836.0, Round2(1836.0000000001))
	assert.Equal(t, 0.0, Round2(math.NaN()))
	assert.Equal(t, 0.0, Round2(math.Inf(1)))
	assert.Equal(t, -2.5, Round2(-2.5))
}

func TestEarlyBirdAmountWindow(t *testing.T) {
	now := time.Now()
	starts := now.Add(-time.Hour)
	ends := now.Add(time.Hour)
	v := models.PricingVariant{
		UnitPrice:         1000,
		EarlyBirdEnabled:  true,
		EarlyBirdStartsAt: &starts,
		EarlyBirdEndsAt:   &ends,
		EarlyBirdType:     types.DISCOUNT_PERCENT,
		EarlyBirdValue:    15,
	}
	assert.Equal(t, 150.0, EarlyBirdAmount(&v, now))

	assert.Equal(t, 0.0, EarlyBirdAmount(&v, starts.Add(-time.Minute)))
	assert.Equal(t, 0.0, EarlyBirdAmount(&v, ends), "window end is exclusive")

	v.EarlyBirdEnabled = false
	assert.Equal(t, 0.0, EarlyBirdAmount(&v, now))
}

func TestEarlyBirdAmountCaps(t *testing.T) {
	now := time.Now()
	maxAmount := 100.0
	v := models.PricingVariant{
		UnitPrice:          1000,
		EarlyBirdEnabled:   true,
		EarlyBirdType:      types.DISCOUNT_PERCENT,
		EarlyBirdValue:     15,
		EarlyBirdMaxAmount: &maxAmount,
	}
	assert.Equal(t, 100.0, EarlyBirdAmount(&v, now))

	v.EarlyBirdMaxAmount = nil
	v.EarlyBirdType = types.DISCOUNT_FIXED
	v.EarlyBirdValue = 5000
	assert.Equal(t, 1000.0, EarlyBirdAmount(&v, now), "fixed discount never exceeds the unit price")

	v.EarlyBirdValue = -10
	assert.Equal(t, 0.0, EarlyBirdAmount(&v, now))
}

func TestBuildQuoteCouponWins(t *testing.T) {
	res := &Resolution{
		Subtotal:          2000,
		EarlyBirdDiscount: 150,
	}
	q := BuildQuote(res, 200, types.PAYMENT_MODE_FULL)

	assert.Equal(t, types.DISCOUNT_SOURCE_COUPON, q.DiscountSource)
	assert.Equal(t, 200.0, q.DiscountAmount)
	assert.Equal(t, 1800.0, q.TaxableAmount)
	assert.Equal(t, 36.0, q.TaxAmount)
	assert.Equal(t, 1836.0, q.TotalAmount)
	assert.Equal(t, 1836.0, q.PayableNow)
	assert.Equal(t, 0.0, q.DueAmount)
}

func TestBuildQuoteEarlyBirdWins(t *testing.T) {
	res := &Resolution{
		Subtotal:          2000,
		EarlyBirdDiscount: 300,
	}
	q := BuildQuote(res, 200, types.PAYMENT_MODE_FULL)

	assert.Equal(t, types.DISCOUNT_SOURCE_EARLY_BIRD, q.DiscountSource)
	assert.Equal(t, 300.0, q.DiscountAmount)
	assert.Equal(t, 1700.0, q.TaxableAmount)
	assert.Equal(t, 34.0, q.TaxAmount)
	assert.Equal(t, 1734.0, q.TotalAmount)
}

func TestBuildQuoteTieGoesToCoupon(t *testing.T) {
	res := &Resolution{
		Subtotal:          2000,
		EarlyBirdDiscount: 150,
	}
	q := BuildQuote(res, 150, types.PAYMENT_MODE_FULL)

	assert.Equal(t, types.DISCOUNT_SOURCE_COUPON, q.DiscountSource)
	assert.Equal(t, 150.0, q.DiscountAmount)
}

func TestBuildQuoteDiscountsNeverStack(t *testing.T) {
	res := &Resolution{
		Subtotal:          2000,
		EarlyBirdDiscount: 150,
	}
	q := BuildQuote(res, 200, types.PAYMENT_MODE_FULL)

	assert.Equal(t, 200.0, q.DiscountAmount, "only the winning discount applies")
	assert.Equal(t, 150.0, q.EarlyBirdDiscount)
	assert.Equal(t, 200.0, q.CouponDiscount)
}

func TestBuildQuoteNoDiscount(t *testing.T) {
	res := &Resolution{Subtotal: 1000}
	q := BuildQuote(res, 0, types.PAYMENT_MODE_FULL)

	assert.Equal(t, types.DISCOUNT_SOURCE_NONE, q.DiscountSource)
	assert.Equal(t, 0.0, q.DiscountAmount)
	assert.Equal(t, 1000.0, q.TaxableAmount)
	assert.Equal(t, 20.0, q.TaxAmount)
	assert.Equal(t, 1020.0, q.TotalAmount)
}

func TestBuildQuoteDiscountExceedsSubtotal(t *testing.T) {
	res := &Resolution{Subtotal: 100}
	q := BuildQuote(res, 500, types.PAYMENT_MODE_FULL)

	assert.Equal(t, 0.0, q.TaxableAmount)
	assert.Equal(t, 0.0, q.TaxAmount)
	assert.Equal(t, 0.0, q.TotalAmount)
}

func TestBuildQuotePartialDeposit(t *testing.T) {
	res := &Resolution{
		Subtotal:          2000,
		EarlyBirdDiscount: 150,
	}
	q := BuildQuote(res, 200, types.PAYMENT_MODE_PARTIAL_25)

	assert.Equal(t, 1836.0, q.TotalAmount)
	assert.Equal(t, 500.0, q.PayableNow, "deposit is a quarter of the base subtotal")
	assert.Equal(t, 1336.0, q.DueAmount)
}

func TestBuildQuotePartialDepositClampedToTotal(t *testing.T) {
	res := &Resolution{Subtotal: 1000}
	q := BuildQuote(res, 900, types.PAYMENT_MODE_PARTIAL_25)

	// total is 102, a quarter of the subtotal would be 250
	assert.Equal(t, 102.0, q.TotalAmount)
	assert.Equal(t, 102.0, q.PayableNow)
	assert.Equal(t, 0.0, q.DueAmount)
}

func TestPaymentBreakdown(t *testing.T) {
	res := &Resolution{
		Subtotal:          2000,
		EarlyBirdDiscount: 150,
		LineItems: []LineItem{
			{TravellerID: "t1", Sharing: "double", UnitPrice: 1000},
			{TravellerID: "t2", Sharing: "double", UnitPrice: 1000},
		},
	}
	q := BuildQuote(res, 200, types.PAYMENT_MODE_FULL)
	items := q.PaymentBreakdown()

	assert.Len(t, items, 4)
	discount := items[2].(map[string]any)
	assert.Equal(t, "coupon", discount["label"])
	assert.Equal(t, -200.0, discount["amount"])
	tax := items[3].(map[string]any)
	assert.Equal(t, "tax", tax["label"])
	assert.Equal(t, 36.0, tax["amount"])
}
