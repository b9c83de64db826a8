package main

import (
	"log"
	"net/http"
	"tbs/src/common"
	"tbs/src/middlewares"
	"tbs/src/types"

	"github.com/gin-gonic/gin"
)

func bookingRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	bookings := apiv1.Group("/bookings")
	bookings.Use(middlewares.BookingTokenMiddleware)
	bookings.
		GET("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if ctx.GetUint("booking_id") != params.ID {
				ctx.AbortWithStatus(http.StatusForbidden)
				return
			}
			booking, err := common.GetBooking(params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"booking": booking})
		}).
		POST("/:id/payments/retry", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if ctx.GetUint("booking_id") != params.ID {
				ctx.AbortWithStatus(http.StatusForbidden)
				return
			}
			result, err := common.RetryPayment(params.ID)
			if err != nil {
				log.Printf("Error reopening payment for booking %d: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, result)
		})
	return apiv1
}
