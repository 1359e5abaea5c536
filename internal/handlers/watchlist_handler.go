package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sceneflix/sceneflix/internal/models"
	"github.com/sceneflix/sceneflix/internal/services"
)

func GetWatchlist(ws *services.WatchlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events := ws.List(c.Request.Context())
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

// ToggleWatchlist flips membership for the posted event snapshot and reports
// the new state.
func ToggleWatchlist(ws *services.WatchlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event models.Event
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "invalid event payload"})
			return
		}
		if event.ID == uuid.Nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event id is required"})
			return
		}

		added := ws.Toggle(c.Request.Context(), event)
		c.JSON(http.StatusOK, gin.H{"event_id": event.ID, "bookmarked": added})
	}
}

func RemoveFromWatchlist(ws *services.WatchlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID format"})
			return
		}

		ws.Remove(c.Request.Context(), id)
		c.JSON(http.StatusOK, gin.H{"message": "Event removed from watchlist"})
	}
}
