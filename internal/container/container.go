package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/sceneflix/sceneflix/internal/localstore"
	"github.com/sceneflix/sceneflix/internal/models"
	"github.com/sceneflix/sceneflix/internal/services"
	"github.com/supabase-community/supabase-go"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Cloudinary *cloudinary.Cloudinary

	SupabaseClient *supabase.Client
	LocalStore     *localstore.Store

	IdentityRepo models.IdentityRepo
	CatalogRepo  models.CatalogRepo
	BookingRepo  models.BookingRepo

	SessionService   *services.SessionService
	WatchlistService *services.WatchlistService
	CatalogService   *services.CatalogService
	BookingService   *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	localStore *localstore.Store,
	supaURL, supaKey string,
) *Container {
	supa := models.SupabaseNewRepo(supabaseClient, supaURL, supaKey)

	sessionService := services.NewSessionService(supa, logger)
	watchlistService := services.NewWatchlistService(localStore, logger)
	catalogService := services.NewCatalogService(supa, logger)
	bookingService := services.NewBookingService(supa, sessionService, logger)

	return &Container{
		Logger:           logger,
		Cloudinary:       cld,
		SupabaseClient:   supabaseClient,
		LocalStore:       localStore,
		IdentityRepo:     supa,
		CatalogRepo:      supa,
		BookingRepo:      supa,
		SessionService:   sessionService,
		WatchlistService: watchlistService,
		CatalogService:   catalogService,
		BookingService:   bookingService,
	}
}
