package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"tbs/src/config"
	"tbs/src/db"
	"tbs/src/lib"
	"tbs/src/lib/mailer"
	"tbs/src/models"
	"tbs/src/types"
	"tbs/src/utils"
	"time"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("no booking matches the gateway callback")

type CallbackOutcome struct {
	Booking   *models.Booking
	Status    types.PaymentStatus
	HashValid bool
	Duplicate bool
}

// ResolveCallbackBooking locates the booking a gateway callback belongs
// to. The booking id travels in udf1, the transaction reference is the
// fallback for older payloads.
func ResolveCallbackBooking(cb *types.GatewayCallbackBody) (*models.Booking, error) {
	gdb := db.GetDb()
	if cb.UDF1 != "" {
		if id, err := strconv.ParseUint(cb.UDF1, 10, 64); err == nil {
			var booking models.Booking
			if err := gdb.
				Where(&models.Booking{ID: uint(id)}).
				Preload("Trip").
				First(&booking).
				Error; err == nil {
				return &booking, nil
			}
		}
	}
	if cb.TxnID == "" {
		return nil, ErrBookingNotFound
	}
	var booking models.Booking
	if err := gdb.
		Where(&models.Booking{PayuTxnID: cb.TxnID}).
		Preload("Trip").
		Order("created_at DESC").
		First(&booking).
		Error; err != nil {
		return nil, ErrBookingNotFound
	}
	return &booking, nil
}

func logCallback(cb *types.GatewayCallbackBody, hashValid bool, booking *models.Booking) {
	entry := models.CallbackLog{
		TxnID:     cb.TxnID,
		Status:    cb.Status,
		HashValid: hashValid,
		Matched:   booking != nil,
		RawPayload: &types.JSONB{
			"status":      cb.Status,
			"txnid":       cb.TxnID,
			"amount":      cb.Amount,
			"productinfo": cb.ProductInfo,
			"firstname":   cb.Firstname,
			"email":       cb.Email,
			"udf1":        cb.UDF1,
			"mihpayid":    cb.MihpayID,
		},
	}
	if booking != nil {
		entry.BookingID = &booking.ID
	}
	gdb := db.GetDb()
	if err := gdb.Create(&entry).Error; err != nil {
		log.Printf("Error writing callback log: %s\n", err.Error())
	}
}

// ProcessGatewayCallback verifies and applies a payment gateway
// callback. Every callback is logged before any state change, and the
// settlement update is guarded so replays cannot double settle. A
// signature mismatch or an unmatched callback is still acknowledged,
// error returns are reserved for config and datastore failures so the
// gateway only retries when a retry can help.
func ProcessGatewayCallback(cb *types.GatewayCallbackBody) (*CallbackOutcome, error) {
	gateway, err := config.GetGatewayConfig()
	if err != nil {
		return nil, err
	}
	booking, lookupErr := ResolveCallbackBooking(cb)

	fallbackName := ""
	fallbackEmail := ""
	fallbackAmount := ""
	if booking != nil {
		fallbackName = booking.Name
		fallbackEmail = booking.Email
		fallbackAmount = lib.FormatAmount(booking.PayableNow)
	}
	hashValid := lib.VerifyCallback(gateway, cb, fallbackName, fallbackEmail, fallbackAmount)
	logCallback(cb, hashValid, booking)

	if !hashValid {
		go alertSignatureMismatch(cb)
		outcome := CallbackOutcome{Booking: booking, Status: types.PAYMENT_FAILED}
		if booking != nil {
			if err := MarkPaymentFailed(booking.ID, cb.TxnID, cb.MihpayID); err != nil {
				return nil, err
			}
		}
		return &outcome, nil
	}
	if lookupErr != nil {
		log.Printf("Unmatched gateway callback: txnid=%s status=%s\n", cb.TxnID, cb.Status)
		return &CallbackOutcome{Status: types.PAYMENT_FAILED, HashValid: true}, nil
	}
	if !lib.MarkCallbackSeen(context.Background(), cb.TxnID, cb.Status) {
		return &CallbackOutcome{Booking: booking, Status: booking.PaymentStatus, HashValid: true, Duplicate: true}, nil
	}

	outcome := CallbackOutcome{Booking: booking, HashValid: true}
	if cb.Status == "success" {
		if err := SettleBooking(booking.ID, cb.TxnID, cb.MihpayID); err != nil {
			return nil, err
		}
		outcome.Status = types.PAYMENT_PAID
		return &outcome, nil
	}
	if err := MarkPaymentFailed(booking.ID, cb.TxnID, cb.MihpayID); err != nil {
		return nil, err
	}
	outcome.Status = types.PAYMENT_FAILED
	return &outcome, nil
}

// SettleBooking flips a pending booking to paid exactly once. A replayed
// settlement is a no-op.
func SettleBooking(bookingID uint, txnID string, gatewayPaymentID string) error {
	var settled bool
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"payment_status": types.PAYMENT_PAID,
		}
		if gatewayPaymentID != "" {
			updates["gateway_payment_id"] = gatewayPaymentID
		}
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND payment_status = ?", bookingID, types.PAYMENT_PENDING).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		settled = res.RowsAffected > 0
		if !settled {
			return nil
		}
		attemptUpdates := map[string]interface{}{
			"status": types.ATTEMPT_SUCCEEDED,
		}
		if gatewayPaymentID != "" {
			attemptUpdates["gateway_payment_id"] = gatewayPaymentID
		}
		if err := tx.
			Model(&models.PaymentAttempt{}).
			Where(&models.PaymentAttempt{BookingID: bookingID, TxnID: txnID}).
			Updates(attemptUpdates).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("SettleBooking failed: %s\n", err.Error())
		return err
	}
	if settled {
		go settledSideEffects(bookingID, txnID)
	}
	return nil
}

// MarkPaymentFailed records a failed attempt. The booking goes to failed
// only while still pending, a paid booking is never downgraded.
func MarkPaymentFailed(bookingID uint, txnID string, gatewayPaymentID string) error {
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"payment_status": types.PAYMENT_FAILED,
		}
		if gatewayPaymentID != "" {
			updates["gateway_payment_id"] = gatewayPaymentID
		}
		if err := tx.
			Model(&models.Booking{}).
			Where("id = ? AND payment_status = ?", bookingID, types.PAYMENT_PENDING).
			Updates(updates).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.PaymentAttempt{}).
			Where(&models.PaymentAttempt{BookingID: bookingID, TxnID: txnID}).
			Update("status", types.ATTEMPT_FAILED).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("MarkPaymentFailed failed: %s\n", err.Error())
	}
	return err
}

func alertSignatureMismatch(cb *types.GatewayCallbackBody) {
	msg := fmt.Sprintf("Gateway callback hash mismatch: txnid=%s status=%s amount=%s", cb.TxnID, cb.Status, cb.Amount)
	log.Println(msg)
	if config.API_ENV == string(types.Local) {
		return
	}
	if err := lib.SNSPublishMessage(utils.WithSuffix("PaymentAlerts"), msg); err != nil {
		log.Printf("Error publishing payment alert: %s\n", err.Error())
	}
}

func settledSideEffects(bookingID uint, txnID string) {
	booking, err := GetBooking(bookingID)
	if err != nil {
		log.Printf("Error loading settled booking %d: %s\n", bookingID, err.Error())
		return
	}
	receiptURL := ""
	if url, err := utils.GenerateReceiptQR(booking.ID, txnID); err == nil {
		receiptURL = *url
	}
	go sendReceiptEmail(booking, receiptURL)
	go publishSettledEvent(booking, txnID)
}

func sendReceiptEmail(booking *models.Booking, receiptURL string) {
	senderFrom := os.Getenv("SMTP_FROM")
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your booking for <b>%s</b> is confirmed.</p>
		<p>Amount paid: %s %.2f</p>`,
		booking.Name,
		booking.Trip.Title,
		booking.Currency,
		booking.PayableNow,
	)
	if booking.DueAmount > 0 {
		body += fmt.Sprintf("<p>Balance due before departure: %s %.2f</p>", booking.Currency, booking.DueAmount)
	}
	if receiptURL != "" {
		body += fmt.Sprintf(`<p><a href="%s">Download your receipt QR</a></p>`, receiptURL)
	}
	input := &lib.SendMailInput{
		Subject:  fmt.Sprintf("Booking confirmed: %s", booking.Trip.Title),
		From:     senderFrom,
		FromName: "noreply",
		To:       []string{booking.Email},
		Body:     body,
		Html:     true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("Error queueing receipt email for booking %d: %s\n", booking.ID, err.Error())
	}
}

func publishSettledEvent(booking *models.Booking, txnID string) {
	payload := &types.JSONB{
		"id":       int64(booking.ID),
		"txnid":    txnID,
		"trip_id":  int64(booking.TripID),
		"email":    booking.Email,
		"total":    booking.TotalAmount,
		"paid":     booking.PayableNow,
		"due":      booking.DueAmount,
		"mode":     string(booking.PaymentMode),
		"currency": booking.Currency,
	}
	queue := utils.WithSuffix("BookingsSettled")
	if config.API_ENV == string(types.Local) {
		if err := lib.KafkaProduceMessage("bookings", queue, payload); err != nil {
			log.Printf("Error producing settled event: %s\n", err.Error())
		}
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error serializing settled event: %s\n", err.Error())
		return
	}
	if err := lib.SQSProduceMessage(queue, string(body)); err != nil {
		log.Printf("Error producing settled event: %s\n", err.Error())
	}
}

// SweepStalePendingBookings expires pending bookings nobody paid for and
// returns reserved coupon uses to the pool.
func SweepStalePendingBookings(olderThan time.Duration) {
	cutoff := time.Now().Add(-olderThan)
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var stale []models.Booking
		if err := tx.
			Where("payment_status = ? AND created_at < ?", types.PAYMENT_PENDING, cutoff).
			Find(&stale).
			Error; err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(stale))
		for _, b := range stale {
			ids = append(ids, b.ID)
		}
		if err := tx.
			Model(&models.Booking{}).
			Where("id IN (?) AND payment_status = ?", ids, types.PAYMENT_PENDING).
			Update("payment_status", types.PAYMENT_FAILED).
			Error; err != nil {
			return err
		}
		for _, b := range stale {
			if b.CouponCode == nil {
				continue
			}
			if err := tx.
				Model(&models.Coupon{}).
				Where("code = ? AND used_count > 0", *b.CouponCode).
				Update("used_count", gorm.Expr("used_count - 1")).
				Error; err != nil {
				return err
			}
		}
		log.Printf("Expired %d stale pending bookings\n", len(ids))
		return nil
	})
	if err != nil {
		log.Printf("Error sweeping stale bookings: %s\n", err.Error())
	}
}
