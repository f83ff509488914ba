package router

import (
	"facility_crm_backend/internal/handlers"
	"facility_crm_backend/internal/middleware"
	"facility_crm_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes sets up the routes the marketing site calls without a session.
func SetupPublicRoutes(apiGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler, bookingHandler *handlers.BookingHandler) {
	apiGroup.GET("/services", catalogHandler.GetServices)
	apiGroup.GET("/services/:id", catalogHandler.GetServiceByID)
	apiGroup.POST("/public/bookings", bookingHandler.SubmitPublicBooking)
}

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	clientRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
	}
}

// SetupBookingRoutes sets up the booking routes.
func SetupBookingRoutes(authenticatedGroup *gin.RouterGroup, bookingHandler *handlers.BookingHandler) {
	bookingRoutes := authenticatedGroup.Group("/bookings")
	bookingRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		bookingRoutes.POST("", bookingHandler.CreateBooking)
		bookingRoutes.GET("", bookingHandler.GetBookings)
		bookingRoutes.GET("/:id", bookingHandler.GetBookingByID)
		bookingRoutes.PUT("/:id", bookingHandler.UpdateBooking)
	}
}

// SetupInvoiceRoutes sets up the invoice routes. Invoices are admin only.
func SetupInvoiceRoutes(authenticatedGroup *gin.RouterGroup, invoiceHandler *handlers.InvoiceHandler) {
	invoiceRoutes := authenticatedGroup.Group("/invoices")
	invoiceRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		invoiceRoutes.POST("", invoiceHandler.CreateInvoice)
		invoiceRoutes.GET("", invoiceHandler.GetInvoices)
		invoiceRoutes.GET("/draft", invoiceHandler.GetInvoiceDraft)
		invoiceRoutes.GET("/:id", invoiceHandler.GetInvoiceByID)
		invoiceRoutes.PUT("/:id", invoiceHandler.UpdateInvoice)
	}
}

// SetupCRMRoutes sets up the dashboard and report routes.
func SetupCRMRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	crmRoutes := authenticatedGroup.Group("/crm")
	{
		crmRoutes.GET("/dashboard", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff), reportHandler.GetDashboardSummary)

		reportRoutes := crmRoutes.Group("/reports")
		reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			reportRoutes.GET("", reportHandler.GetReport)
			reportRoutes.GET("/export", reportHandler.ExportReport)
		}
	}
}

// SetupPortalRoutes sets up the client self-service routes.
func SetupPortalRoutes(authenticatedGroup *gin.RouterGroup, profileHandler *handlers.ProfileHandler) {
	portalRoutes := authenticatedGroup.Group("/portal")
	portalRoutes.Use(middleware.RoleAuthMiddleware(models.RoleClient))
	{
		portalRoutes.GET("", profileHandler.GetPortal)
	}
}
