package pricing

import (
	"errors"
	"time"

	"tbs/src/models"
	"tbs/src/types"
)

// ErrInviteOnly is returned when none of a trip's variants carries a sharing
// key, which marks the trip as not sellable online.
var ErrInviteOnly = errors.New("trip is invite-only and cannot be booked online")

type LineItem struct {
	TravellerID string  `json:"traveller_id"`
	Sharing     string  `json:"sharing"`
	Transport   string  `json:"transport,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
}

type Resolution struct {
	Subtotal          float64
	EarlyBirdDiscount float64
	LineItems         []LineItem
	MissingSharings   []string
}

// Usable reports whether every traveller resolved to a variant. A partial
// resolution must never be priced.
func (r *Resolution) Usable() bool {
	return len(r.MissingSharings) == 0
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// matchVariant picks the variant for (date, sharing, transport). An undated
// variant matches any requested date; a variant without a transport mode
// matches any transport. Ties resolve to the lowest unit price, then to the
// most recently created row.
func matchVariant(variants []models.PricingVariant, date *time.Time, sharing, transport string) *models.PricingVariant {
	var best *models.PricingVariant
	for i := range variants {
		v := &variants[i]
		if v.Sharing == "" || v.Sharing != sharing {
			continue
		}
		if v.DepartureDate != nil && !sameDate(v.DepartureDate, date) {
			continue
		}
		if transport != "" && v.Transport != "" && v.Transport != transport {
			continue
		}
		if best == nil ||
			v.UnitPrice < best.UnitPrice ||
			(v.UnitPrice == best.UnitPrice && v.CreatedAt.After(best.CreatedAt)) {
			best = v
		}
	}
	return best
}

// ResolveTravellers matches every traveller to a priced variant and
// accumulates the base subtotal and the per-variant early-bird discount.
// Travellers whose sharing has no variant are collected in MissingSharings
// and the resolution is not usable for quoting.
func ResolveTravellers(variants []models.PricingVariant, travellers []types.TravellerInput, date *time.Time, fallbackTransport string, now time.Time) (*Resolution, error) {
	sellable := false
	for i := range variants {
		if variants[i].Sharing != "" {
			sellable = true
			break
		}
	}
	if !sellable {
		return nil, ErrInviteOnly
	}

	res := &Resolution{LineItems: []LineItem{}}
	for _, t := range travellers {
		transport := fallbackTransport
		if t.Transport != nil && *t.Transport != "" {
			transport = *t.Transport
		}
		v := matchVariant(variants, date, t.Sharing, transport)
		if v == nil {
			res.MissingSharings = append(res.MissingSharings, t.Sharing)
			continue
		}
		res.Subtotal = Round2(res.Subtotal + v.UnitPrice)
		res.EarlyBirdDiscount = Round2(res.EarlyBirdDiscount + EarlyBirdAmount(v, now))
		res.LineItems = append(res.LineItems, LineItem{
			TravellerID: t.ID,
			Sharing:     t.Sharing,
			Transport:   transport,
			UnitPrice:   v.UnitPrice,
		})
	}
	return res, nil
}

type DisplayPrice struct {
	Base          float64    `json:"base"`
	Payable       float64    `json:"payable"`
	Savings       float64    `json:"savings"`
	Sharing       string     `json:"sharing"`
	Transport     string     `json:"transport,omitempty"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
}

// CheapestDisplayPrice returns the lowest effective price across a trip's
// sellable variants. Duplicate (date, sharing, transport) rows collapse to
// the lowest-priced one before comparison.
func CheapestDisplayPrice(variants []models.PricingVariant, now time.Time) *DisplayPrice {
	type key struct {
		date      string
		sharing   string
		transport string
	}
	dedup := map[key]*models.PricingVariant{}
	for i := range variants {
		v := &variants[i]
		if v.Sharing == "" || v.UnitPrice <= 0 {
			continue
		}
		k := key{sharing: v.Sharing, transport: v.Transport}
		if v.DepartureDate != nil {
			k.date = v.DepartureDate.Format("2006-01-02")
		}
		prev, ok := dedup[k]
		if !ok || v.UnitPrice < prev.UnitPrice ||
			(v.UnitPrice == prev.UnitPrice && v.CreatedAt.After(prev.CreatedAt)) {
			dedup[k] = v
		}
	}

	var best *DisplayPrice
	for _, v := range dedup {
		payable := Round2(v.UnitPrice - EarlyBirdAmount(v, now))
		dp := &DisplayPrice{
			Base:          v.UnitPrice,
			Payable:       payable,
			Savings:       Round2(v.UnitPrice - payable),
			Sharing:       v.Sharing,
			Transport:     v.Transport,
			DepartureDate: v.DepartureDate,
		}
		if best == nil || dp.Payable < best.Payable {
			best = dp
		}
	}
	return best
}
