package router

import (
	"database/sql"
	"net/http"
	"time"

	"facility_crm_backend/internal/config"
	"facility_crm_backend/internal/handlers"
	"facility_crm_backend/internal/middleware"
	"facility_crm_backend/internal/repositories"
	"facility_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services and settings the routes are built from.
type Dependencies struct {
	Clients  services.ClientService
	Bookings services.BookingService
	Invoices services.InvoiceService
	Catalog  services.CatalogService
	Profiles services.ProfileService

	APIKey         string
	JWTSecret      []byte
	RequestTimeout time.Duration
	Now            func() time.Time // nil means time.Now
	Location       *time.Location   // zone bookings are entered in; nil means time.Local
}

// NewDependencies wires the PostgreSQL repositories and services over db.
func NewDependencies(db *sql.DB, cfg *config.Config) Dependencies {
	// Initialize Repositories
	clientRepo := repositories.NewClientRepository(db)
	serviceRepo := repositories.NewServiceRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	// Initialize Services
	clientService := services.NewClientService(clientRepo, db)
	return Dependencies{
		Clients:        clientService,
		Bookings:       services.NewBookingService(bookingRepo, serviceRepo, clientService, db, time.Local),
		Location:       time.Local,
		Invoices:       services.NewInvoiceService(invoiceRepo, bookingRepo, clientService, db),
		Catalog:        services.NewCatalogService(serviceRepo),
		Profiles:       services.NewProfileService(profileRepo),
		APIKey:         cfg.APIKey,
		JWTSecret:      []byte(cfg.JWTSecret),
		RequestTimeout: cfg.QueryTimeout,
	}
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	// Initialize Handlers
	clientHandler := handlers.NewClientHandler(deps.Clients)
	bookingHandler := handlers.NewBookingHandler(deps.Bookings, deps.Clients, deps.Catalog, deps.Location)
	invoiceHandler := handlers.NewInvoiceHandler(deps.Invoices, deps.Clients, deps.Bookings)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	profileHandler := handlers.NewProfileHandler(deps.Clients, deps.Bookings, deps.Invoices)
	reportHandler := handlers.NewReportHandler(deps.Clients, deps.Bookings, deps.Invoices, deps.Now)

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.APIKeyMiddleware(deps.APIKey), middleware.TimeoutMiddleware(deps.RequestTimeout))

	apiV1.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	SetupPublicRoutes(apiV1, catalogHandler, bookingHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(deps.JWTSecret, deps.Profiles))
	{
		authenticated.GET("/me", profileHandler.GetMe)

		SetupClientRoutes(authenticated, clientHandler)
		SetupBookingRoutes(authenticated, bookingHandler)
		SetupInvoiceRoutes(authenticated, invoiceHandler)
		SetupCRMRoutes(authenticated, reportHandler)
		SetupPortalRoutes(authenticated, profileHandler)
	}
}
