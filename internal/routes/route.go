package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sceneflix/sceneflix/internal/container"
	"github.com/sceneflix/sceneflix/internal/handlers"
	"github.com/sceneflix/sceneflix/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "sceneflix-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.Signup(container.SessionService))
		v1.POST("/login", handlers.Login(container.SessionService))
		v1.POST("/logout", handlers.Logout(container.SessionService))
		v1.POST("/password-reset", handlers.RequestPasswordReset(container.SessionService))

		// catalog reads are public, like the original landing page
		eventRoutes := v1.Group("/events")
		{
			eventRoutes.GET("/home", handlers.Home(container.CatalogService))
			eventRoutes.GET("/trending", handlers.Trending(container.CatalogService))
			eventRoutes.GET("/category/:slug", handlers.EventsByCategory(container.CatalogService))
			eventRoutes.GET("/search", handlers.SearchEvents(container.CatalogService))
			eventRoutes.GET("/:id", handlers.EventByID(container.CatalogService, container.BookingService))
		}

		// the watchlist is the visitor's local list; no account needed
		watchlistRoutes := v1.Group("/watchlist")
		{
			watchlistRoutes.GET("/", handlers.GetWatchlist(container.WatchlistService))
			watchlistRoutes.POST("/toggle", handlers.ToggleWatchlist(container.WatchlistService))
			watchlistRoutes.DELETE("/:id", handlers.RemoveFromWatchlist(container.WatchlistService))
		}
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.IdentityRepo, container.Logger))

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("/profile", handlers.Profile(container.SessionService))
		userRoutes.PATCH("/profile", handlers.UpdateProfile(container.SessionService))
		userRoutes.POST("/profile/avatar", handlers.UploadAvatar(container.SessionService, container.Cloudinary))
		userRoutes.POST("/password", handlers.UpdatePassword(container.SessionService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("/", handlers.Checkout(
			container.SessionService,
			container.CatalogService,
			container.BookingService,
			container.BookingRepo,
			container.Logger,
		))
		bookingRoutes.GET("/", handlers.MyBookings(container.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(container.BookingService))
		bookingRoutes.POST("/:id/cancel", handlers.CancelBooking(container.BookingService))
	}

	return r
}
