package pricing

import (
	"math"

	"tbs/src/types"
)

// SnapshotTolerance is the absolute difference a client-claimed value may
// deviate from the server value before it counts as a mismatch.
const SnapshotTolerance = 1.0

type Mismatch struct {
	Field  string  `json:"field"`
	Client float64 `json:"client"`
	Server float64 `json:"server"`
}

// ReconcileSnapshot compares the client-submitted price breakdown against
// the server quote. Client numbers are advisory only; the caller decides
// whether mismatches reject the request or are merely logged.
func ReconcileSnapshot(snap *types.PricingSnapshotInput, q *Quote) []Mismatch {
	if snap == nil {
		return nil
	}
	var mismatches []Mismatch
	check := func(field string, client *float64, server float64) {
		if client == nil {
			return
		}
		if math.Abs(*client-server) > SnapshotTolerance {
			mismatches = append(mismatches, Mismatch{Field: field, Client: *client, Server: server})
		}
	}
	check("subtotal", snap.Subtotal, q.Subtotal)
	check("discount", snap.Discount, q.DiscountAmount)
	check("tax", snap.Tax, q.TaxAmount)
	check("total", snap.Total, q.TotalAmount)
	return mismatches
}
