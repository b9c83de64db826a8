package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeReceiptQRRoundTrip(t *testing.T) {
	t.Setenv("API_QRC_SECRET", "6368616e676520746869732070617373776f726420746f206120736563726574")

	key := []byte("change this password to a secret")
	encrypted, err := EncryptMessage(key, `{"bookingId":42,"txnid":"txn-42"}`)
	assert.Nil(t, err)

	bookingID, txnID, err := DecodeReceiptQR(encrypted)
	assert.Nil(t, err)
	assert.Equal(t, uint(42), bookingID)
	assert.Equal(t, "txn-42", txnID)
}

func TestDecodeReceiptQRRejectsGarbage(t *testing.T) {
	t.Setenv("API_QRC_SECRET", "6368616e676520746869732070617373776f726420746f206120736563726574")

	_, _, err := DecodeReceiptQR("not-a-receipt-code")
	assert.NotNil(t, err)
}
