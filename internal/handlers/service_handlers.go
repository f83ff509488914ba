package handlers

import (
	"errors"
	"net/http"

	"facility_crm_backend/internal/services"
	"facility_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public list of bookable services.
type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) GetServices(c *gin.Context) {
	svcs, err := h.catalogService.GetActiveServices(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "fetch services")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": svcs})
}

// GetServiceByID returns one bookable service. Inactive services are hidden
// from the public catalog and answer 404.
func (h *CatalogHandler) GetServiceByID(c *gin.Context) {
	svc, err := h.catalogService.GetServiceByID(c.Request.Context(), c.Param("id"))
	if err == nil && !svc.IsActive {
		err = services.ErrServiceNotFound
	}
	if err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found.", ""))
			return
		}
		respondServiceError(c, err, "fetch service")
		return
	}
	c.JSON(http.StatusOK, svc)
}
