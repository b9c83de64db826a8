package lib

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	"tbs/src/config"
	"tbs/src/types"
)

// FormatAmount renders a gateway amount with exactly 2 fractional digits,
// which is what the hash construction expects on both legs.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

// PaymentRequestHash signs an outbound payment request. The field order
// key|txnid|amount|productinfo|firstname|email|udf1|<10 empty>|salt is part
// of the gateway wire protocol and must not change.
func PaymentRequestHash(cfg *config.GatewayConfig, txnid, amount, productinfo, firstname, email, udf1 string) string {
	fields := []string{cfg.Key, txnid, amount, productinfo, firstname, email, udf1}
	fields = append(fields, make([]string, 10)...)
	fields = append(fields, cfg.Salt)
	return sha512Hex(strings.Join(fields, "|"))
}

// CallbackHash is the mirror image of PaymentRequestHash: salt first, then
// status, ten empty fields, and the request fields in reverse order.
func CallbackHash(cfg *config.GatewayConfig, status, txnid, amount, productinfo, firstname, email, udf1 string) string {
	fields := []string{cfg.Salt, status}
	fields = append(fields, make([]string, 10)...)
	fields = append(fields, udf1, email, firstname, productinfo, amount, txnid, cfg.Key)
	return sha512Hex(strings.Join(fields, "|"))
}

type PayuRequest struct {
	Key         string `json:"key"`
	TxnID       string `json:"txnid"`
	Amount      string `json:"amount"`
	ProductInfo string `json:"productinfo"`
	Firstname   string `json:"firstname"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	SURL        string `json:"surl"`
	FURL        string `json:"furl"`
	UDF1        string `json:"udf1"`
	Hash        string `json:"hash"`
	Action      string `json:"action"`
}

// BuildPaymentRequest assembles the signed form the client auto-submits to
// the gateway. amount is the amount payable now, not the booking total.
// udf1 carries the booking id so the callback can be correlated without
// trusting the gateway to echo the transaction id.
func BuildPaymentRequest(cfg *config.GatewayConfig, txnid string, amount float64, productinfo, firstname, email, phone string, bookingID uint) *PayuRequest {
	samount := FormatAmount(amount)
	udf1 := fmt.Sprint(bookingID)
	return &PayuRequest{
		Key:         cfg.Key,
		TxnID:       txnid,
		Amount:      samount,
		ProductInfo: productinfo,
		Firstname:   firstname,
		Email:       email,
		Phone:       phone,
		SURL:        cfg.SuccessURL,
		FURL:        cfg.FailureURL,
		UDF1:        udf1,
		Hash:        PaymentRequestHash(cfg, txnid, samount, productinfo, firstname, email, udf1),
		Action:      cfg.Action,
	}
}

// VerifyCallback recomputes the expected callback hash and compares it to
// the received one, case-insensitively. Empty email, firstname or amount
// fields in the callback fall back to the locally-known booking values so a
// sloppy but authentic callback can still be matched.
func VerifyCallback(cfg *config.GatewayConfig, cb *types.GatewayCallbackBody, fallbackFirstname, fallbackEmail, fallbackAmount string) bool {
	firstname := cb.Firstname
	if firstname == "" {
		firstname = fallbackFirstname
	}
	email := cb.Email
	if email == "" {
		email = fallbackEmail
	}
	amount := cb.Amount
	if amount == "" {
		amount = fallbackAmount
	}
	expected := CallbackHash(cfg, cb.Status, cb.TxnID, amount, cb.ProductInfo, firstname, email, cb.UDF1)
	return cb.Hash != "" && strings.EqualFold(expected, cb.Hash)
}
