package pricing

import (
	"testing"
	"time"

	"tbs/src/models"
	"tbs/src/types"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "SUMMER10", NormalizeCouponCode("  summer10 "))
	assert.Equal(t, "SUMMER10", NormalizeCouponCode("Summer10"))
}

func activeCoupon() *models.Coupon {
	return &models.Coupon{
		ID:            1,
		Code:          "SUMMER10",
		DiscountType:  types.DISCOUNT_PERCENT,
		DiscountValue: 10,
		Active:        true,
	}
}

func TestEvaluateCouponMissing(t *testing.T) {
	r := EvaluateCoupon(nil, 1, 1000, 0, time.Now())
	assert.False(t, r.Valid)
	assert.Equal(t, "coupon code does not exist", r.Message)
}

func TestEvaluateCouponInactive(t *testing.T) {
	c := activeCoupon()
	c.Active = false
	r := EvaluateCoupon(c, 1, 1000, 0, time.Now())
	assert.False(t, r.Valid)
	assert.Equal(t, "coupon is no longer active", r.Message)
}

func TestEvaluateCouponWindow(t *testing.T) {
	now := time.Now()
	c := activeCoupon()
	starts := now.Add(time.Hour)
	c.StartsAt = &starts
	r := EvaluateCoupon(c, 1, 1000, 0, now)
	assert.False(t, r.Valid)
	assert.Equal(t, "coupon is not active yet", r.Message)

	c = activeCoupon()
	ends := now.Add(-time.Hour)
	c.EndsAt = &ends
	r = EvaluateCoupon(c, 1, 1000, 0, now)
	assert.False(t, r.Valid)
	assert.Equal(t, "coupon has expired", r.Message)

	c = activeCoupon()
	c.EndsAt = &now
	r = EvaluateCoupon(c, 1, 1000, 0, now)
	assert.False(t, r.Valid, "window end is exclusive")
}

func TestEvaluateCouponTripScope(t *testing.T) {
	c := activeCoupon()
	tripID := uint(7)
	c.TripID = &tripID
	r := EvaluateCoupon(c, 8, 1000, 0, time.Now())
	assert.False(t, r.Valid)
	assert.Equal(t, "coupon is not applicable to this trip", r.Message)

	r = EvaluateCoupon(c, 7, 1000, 0, time.Now())
	assert.True(t, r.Valid)
}

func TestEvaluateCouponMinSubtotal(t *testing.T) {
	c := activeCoupon()
	c.MinSubtotal = 1500
	r := EvaluateCoupon(c, 1, 1000, 0, time.Now())
	assert.False(t, r.Valid)
	assert.Equal(t, "subtotal is below the coupon minimum", r.Message)

	r = EvaluateCoupon(c, 1, 1500, 0, time.Now())
	assert.True(t, r.Valid)
}

func TestEvaluateCouponUsageCaps(t *testing.T) {
	c := activeCoupon()
	c.UsageLimit = 5
	c.UsedCount = 5
	r := EvaluateCoupon(c, 1, 1000, 0, time.Now())
	assert.False(t, r.Valid)
	assert.Equal(t, "coupon usage limit has been reached", r.Message)

	c = activeCoupon()
	c.PerEmailLimit = 1
	r = EvaluateCoupon(c, 1, 1000, 1, time.Now())
	assert.False(t, r.Valid)
	assert.Equal(t, "coupon usage limit for this email has been reached", r.Message)

	c = activeCoupon()
	c.UsageLimit = 0
	c.UsedCount = 100
	r = EvaluateCoupon(c, 1, 1000, 0, time.Now())
	assert.True(t, r.Valid, "zero usage limit means unlimited")
}

func TestEvaluateCouponAmounts(t *testing.T) {
	c := activeCoupon()
	r := EvaluateCoupon(c, 1, 2000, 0, time.Now())
	assert.True(t, r.Valid)
	assert.Equal(t, 200.0, r.DiscountAmount)

	c.DiscountType = types.DISCOUNT_FIXED
	c.DiscountValue = 250
	r = EvaluateCoupon(c, 1, 2000, 0, time.Now())
	assert.Equal(t, 250.0, r.DiscountAmount)

	c.DiscountValue = 5000
	r = EvaluateCoupon(c, 1, 2000, 0, time.Now())
	assert.Equal(t, 2000.0, r.DiscountAmount, "discount is clamped to the subtotal")

	c.DiscountValue = -50
	r = EvaluateCoupon(c, 1, 2000, 0, time.Now())
	assert.Equal(t, 0.0, r.DiscountAmount)
}

func TestEvaluateCouponSnapshot(t *testing.T) {
	c := activeCoupon()
	r := EvaluateCoupon(c, 1, 2000, 0, time.Now())
	assert.NotNil(t, r.Snapshot)
	snap := *r.Snapshot
	assert.Equal(t, "SUMMER10", snap["code"])
	assert.Equal(t, "percent", snap["discount_type"])
	assert.Equal(t, 10.0, snap["discount_value"])
}
