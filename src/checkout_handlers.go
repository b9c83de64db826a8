package main

import (
	"errors"
	"log"
	"net/http"
	"tbs/src/common"
	"tbs/src/config"
	"tbs/src/pricing"
	"tbs/src/types"
	"time"

	"github.com/gin-gonic/gin"
)

func parseDepartureDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(config.DATE_PARSE_FORMAT, *raw)
	if err != nil {
		return nil, errors.New("departure_date must use the YYYY-MM-DD format")
	}
	return &parsed, nil
}

func checkoutRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		GET("/trips/:slug/display-price", func(ctx *gin.Context) {
			var params types.DisplayPriceURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			price, err := common.GetDisplayPrice(params.Slug)
			if err != nil {
				if errors.Is(err, pricing.ErrInviteOnly) {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"display_price": price})
		}).
		POST("/coupons/check", func(ctx *gin.Context) {
			var body types.CouponCheckRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			departureDate, err := parseDepartureDate(body.DepartureDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := common.CheckCoupon(&body, departureDate)
			if err != nil {
				log.Printf("Error checking coupon: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, result)
		}).
		POST("/checkout", func(ctx *gin.Context) {
			var body types.CheckoutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			departureDate, err := parseDepartureDate(body.DepartureDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := common.CreateBooking(&body, departureDate)
			if err != nil {
				log.Printf("Error creating booking: %s\n", err.Error())
				if errors.Is(err, pricing.ErrInviteOnly) {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
				var mismatch *common.SnapshotMismatchError
				if errors.As(err, &mismatch) {
					ctx.JSON(http.StatusConflict, gin.H{
						"error":      mismatch.Error(),
						"pricing":    mismatch.Quote,
						"mismatches": mismatch.Mismatches,
					})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, result)
		})
	return apiv1
}
