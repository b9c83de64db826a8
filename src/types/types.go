package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Env string

const (
	Local      Env = "local"
	Test       Env = "test"
	Production Env = "production"
)

type DiscountType string

const (
	DISCOUNT_PERCENT DiscountType = "percent"
	DISCOUNT_FIXED   DiscountType = "fixed"
)

type DiscountSource string

const (
	DISCOUNT_SOURCE_NONE       DiscountSource = "none"
	DISCOUNT_SOURCE_EARLY_BIRD DiscountSource = "early_bird"
	DISCOUNT_SOURCE_COUPON     DiscountSource = "coupon"
)

type PaymentMode string

const (
	PAYMENT_MODE_FULL       PaymentMode = "full"
	PAYMENT_MODE_PARTIAL_25 PaymentMode = "partial_25"
)

type PaymentStatus string

const (
	PAYMENT_PENDING PaymentStatus = "pending"
	PAYMENT_PAID    PaymentStatus = "paid"
	PAYMENT_FAILED  PaymentStatus = "failed"
)

type AttemptStatus string

const (
	ATTEMPT_PENDING   AttemptStatus = "pending"
	ATTEMPT_SUCCEEDED AttemptStatus = "succeeded"
	ATTEMPT_FAILED    AttemptStatus = "failed"
)

type TravellerInput struct {
	ID        string  `json:"id" binding:"required"`
	Name      string  `json:"name,omitempty"`
	Sharing   string  `json:"sharing" binding:"required"`
	Transport *string `json:"transport,omitempty"`
}

type PricingSnapshotInput struct {
	Subtotal *float64 `json:"subtotal,omitempty"`
	Discount *float64 `json:"discount,omitempty"`
	Tax      *float64 `json:"tax,omitempty"`
	Total    *float64 `json:"total,omitempty"`
}

type CheckoutRequestBody struct {
	TripID          uint                  `json:"trip_id" binding:"required"`
	DepartureDate   *string               `json:"departure_date,omitempty" binding:"omitempty,departuredate"`
	Transport       *string               `json:"transport,omitempty"`
	Travellers      []TravellerInput      `json:"travellers" binding:"required,min=1,dive"`
	CouponCode      *string               `json:"coupon_code,omitempty"`
	PricingSnapshot *PricingSnapshotInput `json:"pricing_snapshot,omitempty"`
	PaymentMode     string                `json:"payment_mode" binding:"required,paymentmode"`
	Name            string                `json:"name" binding:"required"`
	Email           string                `json:"email" binding:"required,email"`
	Phone           string                `json:"phone" binding:"required"`
}

type CouponCheckRequestBody struct {
	TripID        uint             `json:"trip_id" binding:"required"`
	DepartureDate *string          `json:"departure_date,omitempty" binding:"omitempty,departuredate"`
	Transport     *string          `json:"transport,omitempty"`
	Travellers    []TravellerInput `json:"travellers" binding:"required,min=1,dive"`
	CouponCode    string           `json:"coupon_code" binding:"required"`
	Email         string           `json:"email,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type DisplayPriceURIParams struct {
	Slug string `uri:"slug" binding:"required"`
}

type GatewayCallbackBody struct {
	Status      string `form:"status"`
	TxnID       string `form:"txnid"`
	Amount      string `form:"amount"`
	ProductInfo string `form:"productinfo"`
	Firstname   string `form:"firstname"`
	Email       string `form:"email"`
	UDF1        string `form:"udf1"`
	MihpayID    string `form:"mihpayid"`
	Key         string `form:"key"`
	Hash        string `form:"hash"`
}

type ReceiptVerifyRequestBody struct {
	Payload string `json:"payload" binding:"required"`
}

type BookingClaims struct {
	BookingID uint   `json:"booking_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

type Handler func(payload string)
