package middlewares

import (
	"log"
	"strings"
	"tbs/src/utils"

	"github.com/gin-gonic/gin"
)

// BookingTokenMiddleware guards booking lookups. The checkout response
// hands the caller a short lived token scoped to one booking, and only
// that token can read the booking back.
func BookingTokenMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(401)
		return
	}
	parts := strings.Split(bearerToken, " ")
	if len(parts) < 2 || parts[1] == "" {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := parts[1]
	claims, err := utils.ParseBookingToken(reqToken)
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	ctx.Set("booking_id", claims.BookingID)
	ctx.Set("email", claims.Email)
	ctx.Next()
}

func SecureHeaders(ctx *gin.Context) {
	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	ctx.Next()
}
