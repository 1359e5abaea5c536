package handlers

import (
	"net/http"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/sceneflix/sceneflix/internal/helpers"
	"github.com/sceneflix/sceneflix/internal/models"
	"github.com/sceneflix/sceneflix/internal/services"
)

func setSessionCookies(c *gin.Context, session *models.Session) {
	isProduction := os.Getenv("GIN_MODE") == "production"

	// Access token - expires with the session
	c.SetCookie("access_token", session.AccessToken, session.ExpiresIn, "/", "", isProduction, true)
	// Refresh token - expires in 30 days
	c.SetCookie("refresh_token", session.RefreshToken, 3600*24*30, "/", "", isProduction, true)
}

func clearSessionCookies(c *gin.Context) {
	isProduction := os.Getenv("GIN_MODE") == "production"
	c.SetCookie("access_token", "", -1, "/", "", isProduction, true)
	c.SetCookie("refresh_token", "", -1, "/", "", isProduction, true)
}

func Signup(s *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email           string `json:"email" binding:"required"`
			Password        string `json:"password" binding:"required"`
			ConfirmPassword string `json:"confirm_password" binding:"required"`
			FullName        string `json:"full_name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		outcome, err := s.Signup(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword, req.FullName)
		if err != nil {
			writeError(c, err)
			return
		}

		if outcome.NeedsConfirmation {
			c.JSON(http.StatusCreated, gin.H{
				"needs_confirmation": true,
				"message":            "Account created. Check your email to confirm your account.",
			})
			return
		}

		setSessionCookies(c, outcome.Session)
		c.JSON(http.StatusCreated, gin.H{"user": outcome.Session.User})
	}
}

func Login(s *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "invalid request payload"})
			return
		}

		session, err := s.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}

		setSessionCookies(c, session)
		// Return user info but not tokens
		c.JSON(http.StatusOK, gin.H{"user": session.User})
	}
}

func Logout(s *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.Logout(c.Request.Context())
		clearSessionCookies(c)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// Profile answers with the identity the auth middleware resolved for this
// request, plus the state machine's view for the client shell.
func Profile(s *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requestClaims(c)
		if !ok {
			writeError(c, models.ErrNotAuthenticated)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":         claims.UserID,
				"email":      claims.Email,
				"full_name":  claims.FullName,
				"phone":      claims.Phone,
				"avatar_url": claims.AvatarURL,
				"role":       claims.GetSafeRole(),
				"created_at": claims.CreatedAt,
			},
			"loading": s.Loading(),
			"state":   s.State().String(),
		})
	}
}

func UpdateProfile(s *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		profile, err := s.UpdateProfile(c.Request.Context(), fields)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func UploadAvatar(s *services.SessionService, cld *cloudinary.Cloudinary) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Image string `json:"image" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		avatarURL, err := helpers.UploadAvatar(c.Request.Context(), cld, req.Image)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if _, err := s.UpdateProfile(c.Request.Context(), map[string]interface{}{"avatar_url": avatarURL}); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"avatar_url": avatarURL})
	}
}

func RequestPasswordReset(s *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := s.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
	}
}

func UpdatePassword(s *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := s.UpdatePassword(c.Request.Context(), req.Password); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
