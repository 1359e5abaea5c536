package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sceneflix/sceneflix/internal/models"
	"github.com/sceneflix/sceneflix/internal/services"
)

// Checkout runs one complete booking attempt: it builds a fresh flow for the
// event (gated on the active session), applies the selection, and confirms.
func Checkout(s *services.SessionService, cs *services.CatalogService, bs *services.BookingService, repo models.BookingRepo, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			EventID    string `json:"event_id" binding:"required"`
			TicketType string `json:"ticket_type"`
			Quantity   int    `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		eventID, err := uuid.Parse(req.EventID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID format"})
			return
		}

		event := cs.GetByID(c.Request.Context(), eventID)
		if event == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		offerings := bs.EventTickets(c.Request.Context(), eventID)

		flow, err := services.NewBookingFlow(s, repo, logger, *event, offerings)
		if err != nil {
			writeError(c, err)
			return
		}

		if req.TicketType != "" {
			flow.SelectTicketType(req.TicketType)
		}
		flow.SetQuantity(req.Quantity)

		booking, err := flow.Confirm(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"booking":     booking,
			"total_price": flow.TotalPrice(),
		})
	}
}

func MyBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := bs.MyBookings(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

func GetBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID format"})
			return
		}

		booking, err := bs.GetBooking(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		if booking == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		if claims, ok := requestClaims(c); ok && !canAccessBooking(claims, booking) {
			c.JSON(http.StatusForbidden, gin.H{"error": "booking belongs to another user"})
			return
		}
		c.JSON(http.StatusOK, booking)
	}
}

func CancelBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking ID format"})
			return
		}

		booking, err := bs.GetBooking(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		if booking == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		if claims, ok := requestClaims(c); ok && !canAccessBooking(claims, booking) {
			c.JSON(http.StatusForbidden, gin.H{"error": "booking belongs to another user"})
			return
		}

		if err := bs.CancelBooking(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
	}
}
