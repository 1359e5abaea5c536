package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sceneflix/sceneflix/internal/helpers"
	"github.com/sceneflix/sceneflix/internal/models"
)

// requestClaims pulls the identity the auth middleware attached to the
// request.
func requestClaims(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	claims, ok := v.(*helpers.EnhancedClaims)
	return claims, ok
}

// canAccessBooking allows the booking's owner, or an organizer reviewing
// attendance.
func canAccessBooking(claims *helpers.EnhancedClaims, booking *models.Booking) bool {
	return claims.IsOwner(booking.UserID.String()) || claims.IsOrganizer()
}
