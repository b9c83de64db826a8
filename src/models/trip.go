package models

import (
	"time"

	"tbs/src/types"
)

type Trip struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Slug     string `gorm:"uniqueIndex" json:"slug"`
	Title    string `json:"title"`
	About    string `json:"about,omitempty"`
	Currency string `gorm:"default:'INR'" json:"currency,omitempty"`
	Active   bool   `gorm:"default:true" json:"active"`

	Variants []PricingVariant `json:"variants,omitempty"`

	types.Timestamps
}

// PricingVariant is one sellable (date, sharing, transport) price point of a
// Trip. A variant with an empty Sharing key is not sellable online; a trip
// whose variants all have empty Sharing is invite-only.
type PricingVariant struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	TripID        uint       `json:"trip_id"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
	Sharing       string     `json:"sharing,omitempty"`
	Transport     string     `json:"transport,omitempty"`
	UnitPrice     float64    `json:"unit_price"`

	EarlyBirdEnabled   bool               `json:"early_bird_enabled"`
	EarlyBirdStartsAt  *time.Time         `json:"early_bird_starts_at,omitempty"`
	EarlyBirdEndsAt    *time.Time         `json:"early_bird_ends_at,omitempty"`
	EarlyBirdType      types.DiscountType `json:"early_bird_type,omitempty"`
	EarlyBirdValue     float64            `json:"early_bird_value,omitempty"`
	EarlyBirdMaxAmount *float64           `json:"early_bird_max_amount,omitempty"`

	Trip Trip `json:"-"`

	types.Timestamps
}
