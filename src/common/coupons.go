package common

import (
	"errors"
	"tbs/src/pricing"
	"tbs/src/types"
	"time"
)

type CouponCheckResult struct {
	Coupon *pricing.CouponResult `json:"coupon"`
	Quote  *pricing.Quote        `json:"quote"`
}

// CheckCoupon prices the request and reports whether the coupon would
// apply, without touching any booking state. The returned quote already
// reflects the winning discount so callers can preview the final total.
func CheckCoupon(params *types.CouponCheckRequestBody, departureDate *time.Time) (*CouponCheckResult, error) {
	trip, err := GetTripForBooking(params.TripID)
	if err != nil {
		return nil, err
	}
	transport := ""
	if params.Transport != nil {
		transport = *params.Transport
	}
	now := time.Now()
	res, err := pricing.ResolveTravellers(trip.Variants, params.Travellers, departureDate, transport, now)
	if err != nil {
		return nil, err
	}
	if !res.Usable() {
		err := errors.New("no price is available for the selected departure and sharing options")
		return nil, err
	}
	couponResult, err := ValidateCoupon(params.CouponCode, trip.ID, res.Subtotal, params.Email)
	if err != nil {
		return nil, err
	}
	couponAmount := 0.0
	if couponResult.Valid {
		couponAmount = couponResult.DiscountAmount
	}
	quote := pricing.BuildQuote(res, couponAmount, types.PAYMENT_MODE_FULL)
	result := CouponCheckResult{
		Coupon: couponResult,
		Quote:  quote,
	}
	return &result, nil
}
