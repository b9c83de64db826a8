package lib

import (
	"strings"
	"testing"

	"tbs/src/config"
	"tbs/src/types"

	"github.com/stretchr/testify/assert"
)

var testGatewayConfig = &config.GatewayConfig{
	Key:        "K",
	Salt:       "S",
	Action:     "https://secure.example.test/_payment",
	SuccessURL: "https://app.example.test/payment/success",
	FailureURL: "https://app.example.test/payment/failure",
}

const (
	fixedRequestHash  = "e8064628f02c708a42499f2659d7f945fea2e13bc922a94b721230f5f59ad9aa73a186fc1d908fc53ba64b14482e317ffb0176106aca1d60acb0219c3f80c1c5"
	fixedCallbackHash = "4afbc50515fd2350180a5abdbdf842d7fc07ac0a9236c0bf067582650b90d4d5f1a43e2c8bb092ff01b7fb685dc0dc6d26f8f5b8ad25df67be5fa460327c3665"
)

func TestPaymentRequestHashFixedVector(t *testing.T) {
	hash := PaymentRequestHash(testGatewayConfig, "T", "100.00", "P", "F", "E", "U")
	assert.Equal(t, fixedRequestHash, hash)
}

func TestCallbackHashFixedVector(t *testing.T) {
	hash := CallbackHash(testGatewayConfig, "success", "T", "100.00", "P", "F", "E", "U")
	assert.Equal(t, fixedCallbackHash, hash)
}

func TestBuildPaymentRequest(t *testing.T) {
	req := BuildPaymentRequest(testGatewayConfig, "T", 100, "P", "F", "E", "9999999999", 42)

	assert.Equal(t, "100.00", req.Amount)
	assert.Equal(t, "42", req.UDF1)
	assert.Equal(t, testGatewayConfig.Action, req.Action)
	assert.Equal(t, testGatewayConfig.SuccessURL, req.SURL)
	assert.Equal(t, testGatewayConfig.FailureURL, req.FURL)
	assert.Equal(t, PaymentRequestHash(testGatewayConfig, "T", "100.00", "P", "F", "E", "42"), req.Hash)
}

func TestVerifyCallback(t *testing.T) {
	cb := &types.GatewayCallbackBody{
		Status:      "success",
		TxnID:       "T",
		Amount:      "100.00",
		ProductInfo: "P",
		Firstname:   "F",
		Email:       "E",
		UDF1:        "U",
		Hash:        fixedCallbackHash,
	}
	assert.True(t, VerifyCallback(testGatewayConfig, cb, "", "", ""))

	cb.Hash = strings.ToUpper(fixedCallbackHash)
	assert.True(t, VerifyCallback(testGatewayConfig, cb, "", "", ""), "hash comparison is case-insensitive")

	cb.Hash = fixedCallbackHash
	cb.Amount = "999.00"
	assert.False(t, VerifyCallback(testGatewayConfig, cb, "", "", ""), "tampered amount must fail verification")
}

func TestVerifyCallbackFallsBackToBookingFields(t *testing.T) {
	cb := &types.GatewayCallbackBody{
		Status:      "success",
		TxnID:       "T",
		ProductInfo: "P",
		UDF1:        "U",
		Hash:        fixedCallbackHash,
	}
	assert.True(t, VerifyCallback(testGatewayConfig, cb, "F", "E", "100.00"))
	assert.False(t, VerifyCallback(testGatewayConfig, cb, "F", "other@example.com", "100.00"))
}

func TestVerifyCallbackRejectsEmptyHash(t *testing.T) {
	cb := &types.GatewayCallbackBody{Status: "success", TxnID: "T", UDF1: "U"}
	assert.False(t, VerifyCallback(testGatewayConfig, cb, "F", "E", "100.00"))
}
