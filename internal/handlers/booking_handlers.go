package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
	"facility_crm_backend/internal/views"
	"facility_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler holds the booking service and what the booking form needs.
type BookingHandler struct {
	bookingService services.BookingService
	clientService  services.ClientService
	catalogService services.CatalogService
	loc            *time.Location
}

// NewBookingHandler creates a new BookingHandler. Day query parameters are
// read in loc, the zone bookings are entered in.
func NewBookingHandler(bs services.BookingService, cs services.ClientService, catalog services.CatalogService, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BookingHandler{bookingService: bs, clientService: cs, catalogService: catalog, loc: loc}
}

// parseDayParam reads a YYYY-MM-DD query parameter in loc. endOfDay moves the
// result to the last instant of that day.
func parseDayParam(c *gin.Context, name string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", services.ErrDateFormat, name)
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &day, nil
}

// CreateBooking handles creating a new booking from the CRM.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if !bindJSON(c, &req, "CreateBooking") {
		return
	}
	req.CreatedBy = currentUserID(c)

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "create booking")
		return
	}
	utils.LogInfo("Booking created", map[string]interface{}{"booking_id": booking.ID, "client_id": booking.ClientID})
	c.JSON(http.StatusCreated, booking)
}

// GetBookings lists bookings. Supports ?status=, ?from= and ?to= (YYYY-MM-DD,
// inclusive) and ?search= over client and service names. The response also
// carries the client and service options of the booking form.
func (h *BookingHandler) GetBookings(c *gin.Context) {
	var filters models.BookingFilters
	from, err := parseDayParam(c, "from", h.loc, false)
	if err != nil {
		respondServiceError(c, err, "fetch bookings")
		return
	}
	to, err := parseDayParam(c, "to", h.loc, true)
	if err != nil {
		respondServiceError(c, err, "fetch bookings")
		return
	}
	filters.DateFrom, filters.DateTo = from, to
	filters.Ascending = from != nil || to != nil

	page := views.NewBookingsPage(c.Request.Context(), h.bookingService, h.clientService, h.catalogService)
	defer page.Close()

	if err := page.Load(c.Request.Context(), filters); err != nil {
		respondServiceError(c, err, "fetch bookings")
		return
	}
	page.SetSearch(c.Query("search"))
	page.SetStatus(c.Query("status"))
	bookings := page.State().Filtered

	c.JSON(http.StatusOK, gin.H{
		"data":    bookings,
		"total":   len(bookings),
		"options": page.Options(),
	})
}

// GetBookingByID handles fetching a single booking by ID.
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	booking, err := h.bookingService.GetBookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Booking not found.", err.Error()))
			return
		}
		respondServiceError(c, err, "fetch booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBooking handles updating a booking, including status transitions.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	idStr := c.Param("id")
	var req services.UpdateBookingRequest
	if !bindJSON(c, &req, "UpdateBooking") {
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), idStr, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Status change not allowed.", err.Error()))
			return
		}
		respondServiceError(c, err, "update booking")
		return
	}
	utils.LogInfo("Booking updated", map[string]interface{}{"booking_id": idStr, "status": booking.Status})
	c.JSON(http.StatusOK, booking)
}

// SubmitPublicBooking handles the public booking form. The booking is always
// created as pending.
func (h *BookingHandler) SubmitPublicBooking(c *gin.Context) {
	var req services.IntakeRequest
	if !bindJSON(c, &req, "SubmitPublicBooking") {
		return
	}

	booking, err := h.bookingService.SubmitIntake(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "submit booking request")
		return
	}
	utils.LogInfo("Booking request received", map[string]interface{}{"booking_id": booking.ID, "service": booking.ServiceName})
	c.JSON(http.StatusCreated, gin.H{
		"id":           booking.ID,
		"status":       booking.Status,
		"service_name": booking.ServiceName,
		"start_time":   booking.StartTime,
		"end_time":     booking.EndTime,
		"total_amount": booking.TotalAmount,
	})
}
