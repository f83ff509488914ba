package handlers

import (
	"net/http"

	"facility_crm_backend/internal/middleware"
	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
	"facility_crm_backend/internal/views"
	"facility_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the signed-in user's own data.
type ProfileHandler struct {
	clientService  services.ClientService
	bookingService services.BookingService
	invoiceService services.InvoiceService
}

func NewProfileHandler(cs services.ClientService, bs services.BookingService, is services.InvoiceService) *ProfileHandler {
	return &ProfileHandler{clientService: cs, bookingService: bs, invoiceService: is}
}

func requireProfile(c *gin.Context) (*models.UserProfile, bool) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return nil, false
	}
	return profile, true
}

// GetMe returns the profile and the navigation entries its role may see.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, ok := requireProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, services.Session{Profile: profile, Navigation: models.NavigationFor(profile.Role)})
}

// GetPortal returns the client's own record, bookings and invoices.
func (h *ProfileHandler) GetPortal(c *gin.Context) {
	profile, ok := requireProfile(c)
	if !ok {
		return
	}

	page := views.NewPortalPage(c.Request.Context(), h.clientService, h.bookingService, h.invoiceService)
	defer page.Close()
	if err := page.Load(c.Request.Context(), *profile); err != nil {
		respondServiceError(c, err, "load portal")
		return
	}
	c.JSON(http.StatusOK, page.State().View)
}
