package pricing

import (
	"testing"
	"time"

	"tbs/src/models"
	"tbs/src/types"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestResolveTravellersInviteOnly(t *testing.T) {
	variants := []models.PricingVariant{
		{UnitPrice: 1000},
		{UnitPrice: 2000},
	}
	travellers := []types.TravellerInput{{ID: "t1", Sharing: "double"}}
	_, err := ResolveTravellers(variants, travellers, nil, "", time.Now())
	assert.ErrorIs(t, err, ErrInviteOnly)
}

func TestResolveTravellersMissingSharing(t *testing.T) {
	variants := []models.PricingVariant{
		{Sharing: "double", UnitPrice: 1000},
	}
	travellers := []types.TravellerInput{
		{ID: "t1", Sharing: "double"},
		{ID: "t2", Sharing: "triple"},
	}
	res, err := ResolveTravellers(variants, travellers, nil, "", time.Now())
	assert.Nil(t, err)
	assert.False(t, res.Usable())
	assert.Equal(t, []string{"triple"}, res.MissingSharings)
}

func TestResolveTravellersSubtotal(t *testing.T) {
	variants := []models.PricingVariant{
		{Sharing: "double", UnitPrice: 1000},
		{Sharing: "triple", UnitPrice: 900},
	}
	travellers := []types.TravellerInput{
		{ID: "t1", Sharing: "double"},
		{ID: "t2", Sharing: "double"},
		{ID: "t3", Sharing: "triple"},
	}
	res, err := ResolveTravellers(variants, travellers, nil, "", time.Now())
	assert.Nil(t, err)
	assert.True(t, res.Usable())
	assert.Equal(t, 2900.0, res.Subtotal)
	assert.Len(t, res.LineItems, 3)
}

func TestResolveTravellersLowestPriceWins(t *testing.T) {
	variants := []models.PricingVariant{
		{Sharing: "double", UnitPrice: 1200},
		{Sharing: "double", UnitPrice: 1000},
	}
	travellers := []types.TravellerInput{{ID: "t1", Sharing: "double"}}
	res, err := ResolveTravellers(variants, travellers, nil, "", time.Now())
	assert.Nil(t, err)
	assert.Equal(t, 1000.0, res.Subtotal)
}

func TestResolveTravellersPriceTieGoesToNewest(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	ends := time.Now().Add(time.Hour)
	variants := []models.PricingVariant{
		{
			Sharing:   "double",
			UnitPrice: 1000,
			Timestamps: types.Timestamps{
				CreatedAt: old,
			},
		},
		{
			Sharing:          "double",
			UnitPrice:        1000,
			EarlyBirdEnabled: true,
			EarlyBirdType:    types.DISCOUNT_FIXED,
			EarlyBirdValue:   100,
			EarlyBirdEndsAt:  &ends,
			Timestamps: types.Timestamps{
				CreatedAt: newer,
			},
		},
	}
	travellers := []types.TravellerInput{{ID: "t1", Sharing: "double"}}
	res, err := ResolveTravellers(variants, travellers, nil, "", time.Now())
	assert.Nil(t, err)
	assert.Equal(t, 1000.0, res.Subtotal)
	assert.Equal(t, 100.0, res.EarlyBirdDiscount, "the newest of the tied rows carries the discount")
}

func TestResolveTravellersDateFiltering(t *testing.T) {
	dec := time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2027, 1, 10, 0, 0, 0, 0, time.UTC)
	variants := []models.PricingVariant{
		{Sharing: "double", UnitPrice: 1500, DepartureDate: &dec},
		{Sharing: "double", UnitPrice: 1000, DepartureDate: &jan},
		{Sharing: "triple", UnitPrice: 800},
	}
	travellers := []types.TravellerInput{
		{ID: "t1", Sharing: "double"},
		{ID: "t2", Sharing: "triple"},
	}
	res, err := ResolveTravellers(variants, travellers, &dec, "", time.Now())
	assert.Nil(t, err)
	assert.True(t, res.Usable())
	// the dated double matches the requested date, the undated triple
	// matches any date
	assert.Equal(t, 2300.0, res.Subtotal)
}

func TestResolveTravellersTransportOverride(t *testing.T) {
	variants := []models.PricingVariant{
		{Sharing: "double", Transport: "flight", UnitPrice: 1500},
		{Sharing: "double", Transport: "bus", UnitPrice: 1000},
	}
	travellers := []types.TravellerInput{
		{ID: "t1", Sharing: "double"},
		{ID: "t2", Sharing: "double", Transport: strptr("flight")},
	}
	res, err := ResolveTravellers(variants, travellers, nil, "bus", time.Now())
	assert.Nil(t, err)
	assert.Equal(t, 2500.0, res.Subtotal)
	assert.Equal(t, "bus", res.LineItems[0].Transport)
	assert.Equal(t, "flight", res.LineItems[1].Transport)
}

func TestCheapestDisplayPrice(t *testing.T) {
	now := time.Now()
	ends := now.Add(time.Hour)
	variants := []models.PricingVariant{
		{Sharing: "double", UnitPrice: 1200},
		{
			Sharing:          "triple",
			UnitPrice:        1100,
			EarlyBirdEnabled: true,
			EarlyBirdType:    types.DISCOUNT_PERCENT,
			EarlyBirdValue:   20,
			EarlyBirdEndsAt:  &ends,
		},
	}
	dp := CheapestDisplayPrice(variants, now)
	assert.NotNil(t, dp)
	assert.Equal(t, "triple", dp.Sharing)
	assert.Equal(t, 1100.0, dp.Base)
	assert.Equal(t, 880.0, dp.Payable)
	assert.Equal(t, 220.0, dp.Savings)
}

func TestCheapestDisplayPriceSkipsUnsellable(t *testing.T) {
	variants := []models.PricingVariant{
		{UnitPrice: 500},
		{Sharing: "double", UnitPrice: 0},
	}
	dp := CheapestDisplayPrice(variants, time.Now())
	assert.Nil(t, dp)
}
