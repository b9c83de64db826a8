package common

import (
	"errors"
	"fmt"
	"log"
	"tbs/src/config"
	"tbs/src/db"
	"tbs/src/lib"
	"tbs/src/models"
	"tbs/src/pricing"
	"tbs/src/types"
	"tbs/src/utils"
	"time"

	"gorm.io/gorm"
)

// SnapshotMismatchError carries the authoritative quote so the client
// can resynchronize its displayed pricing.
type SnapshotMismatchError struct {
	Quote      *pricing.Quote
	Mismatches []pricing.Mismatch
}

func (e *SnapshotMismatchError) Error() string {
	return fmt.Sprintf("the displayed price is out of date, expected total %.2f", e.Quote.TotalAmount)
}

type CheckoutResult struct {
	BookingID uint             `json:"booking_id"`
	Quote     *pricing.Quote   `json:"quote"`
	Payment   *lib.PayuRequest `json:"payment"`
	Token     string           `json:"token"`
	Warnings  []string         `json:"warnings,omitempty"`
}

func travellersToJSON(travellers []types.TravellerInput) types.JSONBArray {
	out := types.JSONBArray{}
	for _, t := range travellers {
		transport := ""
		if t.Transport != nil {
			transport = *t.Transport
		}
		out = append(out, map[string]interface{}{
			"id":        t.ID,
			"name":      t.Name,
			"sharing":   t.Sharing,
			"transport": transport,
		})
	}
	return out
}

// CreateBooking prices the request server side, persists the booking in
// pending state together with its first payment attempt and returns the
// signed gateway form fields.
func CreateBooking(params *types.CheckoutRequestBody, departureDate *time.Time) (*CheckoutResult, error) {
	trip, err := GetTripForBooking(params.TripID)
	if err != nil {
		return nil, err
	}
	transport := ""
	if params.Transport != nil {
		transport = *params.Transport
	}
	couponCode := ""
	if params.CouponCode != nil {
		couponCode = *params.CouponCode
	}
	quote, couponResult, err := BuildBookingQuote(&QuoteParams{
		Trip:          trip,
		DepartureDate: departureDate,
		Transport:     transport,
		Travellers:    params.Travellers,
		CouponCode:    couponCode,
		Email:         params.Email,
		PaymentMode:   types.PaymentMode(params.PaymentMode),
	})
	if err != nil {
		return nil, err
	}
	if couponCode != "" && couponResult != nil && !couponResult.Valid {
		return nil, errors.New(couponResult.Message)
	}

	gateway, err := config.GetGatewayConfig()
	if err != nil {
		return nil, err
	}

	warnings := []string{}
	if params.PricingSnapshot != nil {
		mismatches := pricing.ReconcileSnapshot(params.PricingSnapshot, quote)
		if len(mismatches) > 0 {
			for _, m := range mismatches {
				log.Printf("Pricing snapshot drift on %s: client=%.2f server=%.2f\n", m.Field, m.Client, m.Server)
			}
			if gateway.Strict {
				return nil, &SnapshotMismatchError{Quote: quote, Mismatches: mismatches}
			}
			for _, m := range mismatches {
				msg := fmt.Sprintf("%s was recalculated from %.2f to %.2f", m.Field, m.Client, m.Server)
				warnings = append(warnings, msg)
			}
		}
	}

	txnID := utils.NewTxnID()
	booking := models.Booking{
		TripID:           trip.ID,
		DepartureDate:    departureDate,
		Travellers:       travellersToJSON(params.Travellers),
		PaymentBreakdown: quote.PaymentBreakdown(),
		Subtotal:         quote.Subtotal,
		DiscountAmount:   quote.DiscountAmount,
		DiscountSource:   quote.DiscountSource,
		TaxAmount:        quote.TaxAmount,
		TotalAmount:      quote.TotalAmount,
		PayableNow:       quote.PayableNow,
		DueAmount:        quote.DueAmount,
		PaymentMode:      types.PaymentMode(params.PaymentMode),
		Name:             params.Name,
		Email:            params.Email,
		Phone:            params.Phone,
		Currency:         trip.Currency,
		PaymentStatus:    types.PAYMENT_PENDING,
		PayuTxnID:        txnID,
	}
	couponApplied := quote.DiscountSource == types.DISCOUNT_SOURCE_COUPON && couponResult != nil
	if couponApplied {
		code := pricing.NormalizeCouponCode(couponCode)
		booking.CouponCode = &code
		booking.CouponSnapshot = couponResult.Snapshot
	}

	db := db.GetDb()
	var couponID uint
	err = db.Transaction(func(tx *gorm.DB) error {
		if couponApplied {
			res := tx.
				Model(&models.Coupon{}).
				Where("code = ? AND active = ? AND (usage_limit = 0 OR used_count < usage_limit)", *booking.CouponCode, true).
				Update("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				err := errors.New("coupon is no longer available")
				return err
			}
			var coupon models.Coupon
			if err := tx.
				Where(&models.Coupon{Code: *booking.CouponCode}).
				First(&coupon).
				Error; err != nil {
				return err
			}
			// The update above holds the coupon row lock, so this count
			// cannot race a concurrent checkout for the same code.
			if coupon.PerEmailLimit > 0 {
				var redeemed int64
				if err := tx.
					Model(&models.CouponRedemption{}).
					Where(&models.CouponRedemption{CouponID: coupon.ID, Email: booking.Email}).
					Count(&redeemed).
					Error; err != nil {
					return err
				}
				if uint(redeemed) >= coupon.PerEmailLimit {
					return errors.New("coupon usage limit for this email has been reached")
				}
			}
			couponID = coupon.ID
		}
		if err := tx.Create(&booking).Error; err != nil {
			err = fmt.Errorf("error in Booking transaction: %s", err.Error())
			log.Println(err.Error())
			return err
		}
		if couponApplied {
			redemption := models.CouponRedemption{
				CouponID:  couponID,
				BookingID: booking.ID,
				Email:     booking.Email,
			}
			if err := tx.Create(&redemption).Error; err != nil {
				return err
			}
		}
		attempt := models.PaymentAttempt{
			BookingID: booking.ID,
			TxnID:     txnID,
			Amount:    quote.PayableNow,
			Currency:  booking.Currency,
			Status:    types.ATTEMPT_PENDING,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("CreateBooking failed: %s\n", err.Error())
		return nil, err
	}

	payment := lib.BuildPaymentRequest(gateway, txnID, quote.PayableNow, trip.Title, booking.Name, booking.Email, booking.Phone, booking.ID)
	token, err := utils.IssueBookingToken(booking.ID, booking.Email)
	if err != nil {
		log.Printf("Error issuing booking token: %s\n", err.Error())
		return nil, err
	}

	if booking.PaymentMode == types.PAYMENT_MODE_PARTIAL_25 && booking.DueAmount > 0 && departureDate != nil {
		go scheduleBalanceDueReminder(&booking, *departureDate)
	}

	result := CheckoutResult{
		BookingID: booking.ID,
		Quote:     quote,
		Payment:   payment,
		Token:     token,
		Warnings:  warnings,
	}
	return &result, nil
}

// scheduleBalanceDueReminder queues a reminder a week before departure
// for bookings paid with a deposit.
func scheduleBalanceDueReminder(booking *models.Booking, departureDate time.Time) {
	runsAt := departureDate.AddDate(0, 0, -7)
	if runsAt.Before(time.Now()) {
		return
	}
	payload := types.JSONB{
		"id":     int64(booking.ID),
		"due":    booking.DueAmount,
		"email":  booking.Email,
		"topic":  "BalanceDueReminders",
		"source": "bookings",
	}
	vars := map[string]string{
		"name":     fmt.Sprintf("Booking_%d_BalanceDue", booking.ID),
		"topic":    utils.WithSuffix("BalanceDueReminders"),
		"clientId": "BalanceDueProducer",
	}
	id, err := lib.NewScheduledJob(runsAt, vars, payload)
	if err != nil {
		log.Printf("Error creating job for Booking: id=%d error=%s\n", booking.ID, err.Error())
		return
	}
	log.Printf("Created job for Booking[%d] with ID %s\n", booking.ID, id.String())
}

func GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	db := db.GetDb()
	if err := db.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: id}).
		Preload("Trip").
		Preload("Attempts").
		First(&booking).
		Error; err != nil {
		err := errors.New("booking not found")
		return nil, err
	}
	return &booking, nil
}

// RetryPayment opens a fresh payment attempt for a booking that has not
// been settled yet, reusing the original quote amounts.
func RetryPayment(id uint) (*CheckoutResult, error) {
	gateway, err := config.GetGatewayConfig()
	if err != nil {
		return nil, err
	}
	var booking models.Booking
	txnID := utils.NewTxnID()
	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&models.Booking{ID: id}).
			Preload("Trip").
			First(&booking).
			Error; err != nil {
			err := errors.New("booking not found")
			return err
		}
		if booking.PaymentStatus == types.PAYMENT_PAID {
			err := errors.New("booking is already paid")
			return err
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: booking.ID}).
			Updates(map[string]interface{}{
				"payu_txn_id":    txnID,
				"payment_status": types.PAYMENT_PENDING,
			}).
			Error; err != nil {
			return err
		}
		attempt := models.PaymentAttempt{
			BookingID: booking.ID,
			TxnID:     txnID,
			Amount:    booking.PayableNow,
			Currency:  booking.Currency,
			Status:    types.ATTEMPT_PENDING,
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("RetryPayment failed: %s\n", err.Error())
		return nil, err
	}
	payment := lib.BuildPaymentRequest(gateway, txnID, booking.PayableNow, booking.Trip.Title, booking.Name, booking.Email, booking.Phone, booking.ID)
	result := CheckoutResult{
		BookingID: booking.ID,
		Payment:   payment,
	}
	return &result, nil
}
