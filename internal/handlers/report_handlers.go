package handlers

import (
	"bytes"
	"net/http"
	"time"

	"facility_crm_backend/internal/export"
	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
	"facility_crm_backend/internal/views"
	"facility_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the dashboard and the reports page.
type ReportHandler struct {
	clientService  services.ClientService
	bookingService services.BookingService
	invoiceService services.InvoiceService
	now            func() time.Time
}

// NewReportHandler creates a new ReportHandler. A nil now uses time.Now.
func NewReportHandler(cs services.ClientService, bs services.BookingService, is services.InvoiceService, now func() time.Time) *ReportHandler {
	if now == nil {
		now = time.Now
	}
	return &ReportHandler{clientService: cs, bookingService: bs, invoiceService: is, now: now}
}

// GetDashboardSummary handles fetching the key metrics for the current month.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	page := views.NewDashboardPage(c.Request.Context(), h.clientService, h.bookingService, h.invoiceService, h.now)
	defer page.Close()

	if err := page.Load(c.Request.Context()); err != nil {
		respondServiceError(c, err, "load dashboard")
		return
	}
	c.JSON(http.StatusOK, page.State().Summary)
}

func (h *ReportHandler) loadReport(c *gin.Context) (*models.ReportSummary, bool) {
	var params models.ReportRequestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return nil, false
	}
	start, end, err := views.ParseReportRange(params, h.now())
	if err != nil {
		respondServiceError(c, err, "load report")
		return nil, false
	}

	page := views.NewReportsPage(c.Request.Context(), h.clientService, h.bookingService, h.invoiceService, h.now)
	defer page.Close()
	if err := page.Load(c.Request.Context(), start, end); err != nil {
		respondServiceError(c, err, "load report")
		return nil, false
	}
	summary := page.State().Summary
	return &summary, true
}

// GetReport handles the reports page for ?start=&end= (YYYY-MM-DD), defaulting
// to the current month.
func (h *ReportHandler) GetReport(c *gin.Context) {
	summary, ok := h.loadReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportReport streams the same report as an XLSX download.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	summary, ok := h.loadReport(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, *summary); err != nil {
		utils.LogError(err, "ExportReport: Failed to build workbook")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to export report.", "Internal error"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(*summary)+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
