package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sceneflix/sceneflix/internal/models"
	"github.com/sceneflix/sceneflix/internal/services"
)

// Home assembles the landing view: hero, the two source rails, and the
// composed "Trending Now" rail.
func Home(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		primary := c.DefaultQuery("primary", "techno")
		secondary := c.DefaultQuery("secondary", "live")

		view := cs.FetchHome(c.Request.Context(), primary, secondary)
		if view == nil {
			// Consumer went away mid-fetch; nothing left to render to.
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(view, ""))
	}
}

func Trending(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events := cs.GetTrending(c.Request.Context(), 0)
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

func EventsByCategory(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		events := cs.GetByCategory(c.Request.Context(), slug, 0)
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

// EventByID returns the event detail together with its ticket offerings.
func EventByID(cs *services.CatalogService, bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID format"})
			return
		}

		event := cs.GetByID(c.Request.Context(), id)
		if event == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		tickets := bs.EventTickets(c.Request.Context(), id)
		c.JSON(http.StatusOK, gin.H{
			"event":   event,
			"tickets": tickets,
		})
	}
}

func SearchEvents(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
			return
		}
		events := cs.Search(c.Request.Context(), query, 0)
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}
