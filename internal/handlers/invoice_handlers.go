package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
	"facility_crm_backend/internal/views"
	"facility_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler holds the invoice service and what the invoice form needs.
type InvoiceHandler struct {
	invoiceService services.InvoiceService
	clientService  services.ClientService
	bookingService services.BookingService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(is services.InvoiceService, cs services.ClientService, bs services.BookingService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: is, clientService: cs, bookingService: bs}
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if !bindJSON(c, &req, "CreateInvoice") {
		return
	}
	req.CreatedBy = currentUserID(c)

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceTotalMismatch) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Total must equal amount plus tax.", err.Error()))
			return
		}
		respondServiceError(c, err, "create invoice")
		return
	}
	utils.LogInfo("Invoice created", map[string]interface{}{"invoice_id": invoice.ID, "invoice_number": invoice.InvoiceNumber})
	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices lists invoices, newest first. Supports ?status= and ?search= over
// invoice number and client name. The response also carries the client and
// booking options of the invoice form.
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	page := views.NewInvoicesPage(c.Request.Context(), h.invoiceService, h.clientService, h.bookingService)
	defer page.Close()

	if err := page.Load(c.Request.Context(), models.InvoiceFilters{}); err != nil {
		respondServiceError(c, err, "fetch invoices")
		return
	}
	page.SetSearch(c.Query("search"))
	page.SetStatus(c.Query("status"))
	invoices := page.State().Filtered

	c.JSON(http.StatusOK, gin.H{
		"data":    invoices,
		"total":   len(invoices),
		"options": page.Options(),
	})
}

// GetInvoiceDraft returns the invoice form pre-filled from ?booking_id=.
// An optional ?tax= is added to the booking amount.
func (h *InvoiceHandler) GetInvoiceDraft(c *gin.Context) {
	booking, err := h.bookingService.GetBookingByID(c.Request.Context(), c.Query("booking_id"))
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Booking not found.", err.Error()))
			return
		}
		respondServiceError(c, err, "prepare invoice")
		return
	}

	draft := views.DraftFromBooking(*booking)
	if value := c.Query("tax"); value != "" {
		tax, err := strconv.ParseFloat(value, 64)
		if err != nil || tax < 0 {
			utils.RespondValidationFailed(c, "tax must be a non-negative number")
			return
		}
		draft = draft.WithAmounts(draft.Amount, tax)
	}
	c.JSON(http.StatusOK, draft)
}

func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Invoice not found.", err.Error()))
			return
		}
		respondServiceError(c, err, "fetch invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	idStr := c.Param("id")
	var req services.UpdateInvoiceRequest
	if !bindJSON(c, &req, "UpdateInvoice") {
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), idStr, req)
	if err != nil {
		respondServiceError(c, err, "update invoice")
		return
	}
	utils.LogInfo("Invoice updated", map[string]interface{}{"invoice_id": idStr, "status": invoice.Status})
	c.JSON(http.StatusOK, invoice)
}
