package pricing

import (
	"testing"

	"tbs/src/types"

	"github.com/stretchr/testify/assert"
)

func fptr(f float64) *float64 { return &f }

func serverQuote() *Quote {
	res := &Resolution{Subtotal: 2000, EarlyBirdDiscount: 150}
	return BuildQuote(res, 200, types.PAYMENT_MODE_FULL)
}

func TestReconcileSnapshotMatches(t *testing.T) {
	q := serverQuote()
	snap := &types.PricingSnapshotInput{
		Subtotal: fptr(2000),
		Discount: fptr(200),
		Tax:      fptr(36),
		Total:    fptr(1836),
	}
	assert.Empty(t, ReconcileSnapshot(snap, q))
}

func TestReconcileSnapshotWithinTolerance(t *testing.T) {
	q := serverQuote()
	snap := &types.PricingSnapshotInput{
		Total: fptr(1836.99),
	}
	assert.Empty(t, ReconcileSnapshot(snap, q))
}

func TestReconcileSnapshotStaleTotal(t *testing.T) {
	q := serverQuote()
	// client still shows the early-bird total instead of the coupon total
	snap := &types.PricingSnapshotInput{
		Total: fptr(1800),
	}
	mismatches := ReconcileSnapshot(snap, q)
	assert.Len(t, mismatches, 1)
	assert.Equal(t, "total", mismatches[0].Field)
	assert.Equal(t, 1800.0, mismatches[0].Client)
	assert.Equal(t, 1836.0, mismatches[0].Server)
}

func TestReconcileSnapshotNilFieldsSkipped(t *testing.T) {
	q := serverQuote()
	snap := &types.PricingSnapshotInput{}
	assert.Empty(t, ReconcileSnapshot(snap, q))
	assert.Empty(t, ReconcileSnapshot(nil, q))
}

func TestReconcileSnapshotMultipleFields(t *testing.T) {
	q := serverQuote()
	snap := &types.PricingSnapshotInput{
		Subtotal: fptr(1800),
		Discount: fptr(150),
		Tax:      fptr(36),
		Total:    fptr(1836),
	}
	mismatches := ReconcileSnapshot(snap, q)
	assert.Len(t, mismatches, 2)
	assert.Equal(t, "subtotal", mismatches[0].Field)
	assert.Equal(t, "discount", mismatches[1].Field)
}
