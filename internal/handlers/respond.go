package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sceneflix/sceneflix/internal/models"
)

// statusForError maps the error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	var (
		validationErr *models.ValidationError
		authErr       *models.AuthenticationError
		ticketErr     *models.TicketUnavailableError
		gatewayErr    *models.GatewayError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &ticketErr):
		return http.StatusConflict
	case errors.As(err, &gatewayErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	// Attach the error so the middleware's central logging sees it.
	_ = c.Error(err)
	c.JSON(statusForError(err), models.ErrorResponse(err.Error()))
}
