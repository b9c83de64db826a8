package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"tbs/src/common"
	"tbs/src/types"
	"tbs/src/utils"

	"github.com/gin-gonic/gin"
)

// paymentRoutes receives the gateway's browser redirects. The gateway
// posts the signed form here and the handler bounces the traveller back
// to the app with the verified outcome.
func paymentRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/payments/callback", func(ctx *gin.Context) {
		var body types.GatewayCallbackBody
		if err := ctx.ShouldBind(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		appHost := os.Getenv("APP_HOST")
		outcome, err := common.ProcessGatewayCallback(&body)
		if err != nil {
			log.Printf("Error processing gateway callback: %s\n", err.Error())
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ctx.Redirect(http.StatusSeeOther, callbackRedirectTarget(appHost, outcome, body.TxnID))
	})
	apiv1.POST("/payments/receipt/verify", func(ctx *gin.Context) {
		var body types.ReceiptVerifyRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		bookingID, txnID, err := utils.DecodeReceiptQR(body.Payload)
		if err != nil {
			log.Printf("Error decoding receipt code: %s\n", err.Error())
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "receipt code is not valid"})
			return
		}
		booking, err := common.GetBooking(bookingID)
		if err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		valid := false
		if booking.PaymentStatus == types.PAYMENT_PAID {
			for _, a := range booking.Attempts {
				if a.TxnID == txnID && a.Status == types.ATTEMPT_SUCCEEDED {
					valid = true
					break
				}
			}
		}
		ctx.JSON(http.StatusOK, gin.H{
			"valid":          valid,
			"booking_id":     bookingID,
			"txnid":          txnID,
			"payment_status": booking.PaymentStatus,
		})
	})
	return apiv1
}

// callbackRedirectTarget maps a processed callback to the landing page
// URL. Replayed callbacks land on the page matching the booking's settled
// status, the same as the delivery that settled it.
func callbackRedirectTarget(appHost string, outcome *common.CallbackOutcome, txnid string) string {
	page := "failure"
	if outcome.Status == types.PAYMENT_PAID {
		page = "success"
	}
	if outcome.Booking == nil {
		return fmt.Sprintf("%s/payment/%s?txnid=%s", appHost, page, txnid)
	}
	return fmt.Sprintf("%s/payment/%s?booking_id=%d&txnid=%s", appHost, page, outcome.Booking.ID, txnid)
}
