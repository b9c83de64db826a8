package common

import (
	"errors"
	"log"
	"tbs/src/db"
	"tbs/src/models"
	"tbs/src/pricing"
	"tbs/src/types"
	"time"

	"gorm.io/gorm"
)

// GetTripForBooking loads an active trip with its pricing variants.
func GetTripForBooking(id uint) (*models.Trip, error) {
	var trip models.Trip
	db := db.GetDb()
	if err := db.
		Model(&models.Trip{}).
		Where(&models.Trip{ID: id, Active: true}).
		Preload("Variants").
		First(&trip).
		Error; err != nil {
		err := errors.New("trip not found")
		return nil, err
	}
	return &trip, nil
}

func GetTripBySlug(slug string) (*models.Trip, error) {
	var trip models.Trip
	db := db.GetDb()
	if err := db.
		Model(&models.Trip{}).
		Where(&models.Trip{Slug: slug, Active: true}).
		Preload("Variants").
		First(&trip).
		Error; err != nil {
		err := errors.New("trip not found")
		return nil, err
	}
	return &trip, nil
}

type QuoteParams struct {
	Trip          *models.Trip
	DepartureDate *time.Time
	Transport     string
	Travellers    []types.TravellerInput
	CouponCode    string
	Email         string
	PaymentMode   types.PaymentMode
}

// BuildBookingQuote resolves traveller line items against the trip's
// variants, evaluates the coupon when one is supplied and assembles the
// final quote.
func BuildBookingQuote(params *QuoteParams) (*pricing.Quote, *pricing.CouponResult, error) {
	now := time.Now()
	res, err := pricing.ResolveTravellers(params.Trip.Variants, params.Travellers, params.DepartureDate, params.Transport, now)
	if err != nil {
		return nil, nil, err
	}
	if !res.Usable() {
		err := errors.New("no price is available for the selected departure and sharing options")
		return nil, nil, err
	}

	couponAmount := 0.0
	var couponResult *pricing.CouponResult
	if params.CouponCode != "" {
		couponResult, err = ValidateCoupon(params.CouponCode, params.Trip.ID, res.Subtotal, params.Email)
		if err != nil {
			return nil, nil, err
		}
		if couponResult.Valid {
			couponAmount = couponResult.DiscountAmount
		}
	}

	quote := pricing.BuildQuote(res, couponAmount, params.PaymentMode)
	return quote, couponResult, nil
}

// ValidateCoupon loads a coupon by its normalized code and evaluates it
// against the trip, subtotal and the caller's redemption history.
func ValidateCoupon(code string, tripID uint, subtotal float64, email string) (*pricing.CouponResult, error) {
	normalized := pricing.NormalizeCouponCode(code)
	var coupon models.Coupon
	var emailRedemptions int64
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Coupon{}).
			Where(&models.Coupon{Code: normalized}).
			First(&coupon).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if email != "" && coupon.PerEmailLimit > 0 {
			if err := tx.
				Model(&models.CouponRedemption{}).
				Where(&models.CouponRedemption{CouponID: coupon.ID, Email: email}).
				Count(&emailRedemptions).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error loading coupon [%s]: %s\n", normalized, err.Error())
		return nil, err
	}
	now := time.Now()
	if coupon.ID == 0 {
		return pricing.EvaluateCoupon(nil, tripID, subtotal, 0, now), nil
	}
	return pricing.EvaluateCoupon(&coupon, tripID, subtotal, uint(emailRedemptions), now), nil
}
