package common

import (
	"log"
	"strconv"
	"tbs/src/db"
	"tbs/src/models"
	"tbs/src/pricing"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CreateTrip inserts a trip with its pricing variants. The slug is
// derived from the title when not supplied.
func CreateTrip(trip *models.Trip) (uint, error) {
	if trip.Slug == "" {
		trip.Slug = slug.Make(trip.Title)
	}
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(trip).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("CreateTrip failed: %s\n", err.Error())
		return 0, err
	}
	return trip.ID, nil
}

// GetDisplayPrice returns the cheapest bookable option for a trip page.
// The reference is a slug, or a numeric trip id for older links.
func GetDisplayPrice(ref string) (*pricing.DisplayPrice, error) {
	trip, err := GetTripBySlug(ref)
	if err != nil {
		if id, perr := strconv.ParseUint(ref, 10, 64); perr == nil {
			trip, err = GetTripForBooking(uint(id))
		}
		if err != nil {
			return nil, err
		}
	}
	now := time.Now()
	price := pricing.CheapestDisplayPrice(trip.Variants, now)
	if price == nil {
		return nil, pricing.ErrInviteOnly
	}
	return price, nil
}
