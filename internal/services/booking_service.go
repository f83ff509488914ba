package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/repositories"
	"facility_crm_backend/pkg/utils"
)

// --- Custom Service Errors for Booking ---
var (
	ErrBookingNotFound           = errors.New("booking not found")
	ErrInvalidBookingTime        = errors.New("invalid booking time")
	ErrClientForBookingNotFound  = errors.New("client specified for booking not found")
	ErrServiceForBookingNotFound = errors.New("service specified for booking not found")
	ErrBookingValidation         = errors.New("booking data validation error")
)

// FullDayDuration is the intake form's value for a whole-day booking.
const FullDayDuration = "full-day"

// dateTimeLayouts are accepted for booking start and end times, most specific first.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// --- Booking DTOs ---
type CreateBookingRequest struct {
	ClientID     string   `json:"client_id" binding:"required"`
	ServiceID    *string  `json:"service_id"`
	ServiceName  *string  `json:"service_name"`
	StartTime    string   `json:"start_time" binding:"required"`
	EndTime      string   `json:"end_time" binding:"required"`
	Participants *int     `json:"participants"`
	TotalAmount  *float64 `json:"total_amount"`
	Notes        *string  `json:"notes"`
	Status       *string  `json:"status"`
	CreatedBy    *string  `json:"-"`
}

type UpdateBookingRequest struct {
	ServiceID    *string  `json:"service_id"`
	ServiceName  *string  `json:"service_name"`
	StartTime    *string  `json:"start_time"`
	EndTime      *string  `json:"end_time"`
	Participants *int     `json:"participants"`
	TotalAmount  *float64 `json:"total_amount"`
	Notes        *string  `json:"notes"`
	Status       *string  `json:"status"`
}

// IntakeRequest is what the public booking form submits.
type IntakeRequest struct {
	ServiceID       string  `json:"service_id" binding:"required"`
	Date            string  `json:"date" binding:"required"` // YYYY-MM-DD
	Time            string  `json:"time" binding:"required"` // HH:MM
	Duration        string  `json:"duration" binding:"required"`
	Participants    int     `json:"participants"`
	FirstName       string  `json:"first_name" binding:"required"`
	LastName        string  `json:"last_name" binding:"required"`
	Email           string  `json:"email" binding:"required"`
	Phone           *string `json:"phone"`
	SpecialRequests *string `json:"special_requests"`
}

// --- BookingService Interface ---
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, bookingID string, req UpdateBookingRequest) (*models.Booking, error)
	SubmitIntake(ctx context.Context, req IntakeRequest) (*models.Booking, error)
}

// --- bookingService Implementation ---
type bookingService struct {
	bookingRepo repositories.BookingRepository
	serviceRepo repositories.ServiceRepository
	clients     ClientService
	db          repositories.SQLExecutor
	loc         *time.Location
}

// NewBookingService creates a new instance of BookingService. Times without an
// explicit offset are interpreted in loc.
func NewBookingService(
	br repositories.BookingRepository,
	sr repositories.ServiceRepository,
	clients ClientService,
	db repositories.SQLExecutor,
	loc *time.Location,
) BookingService {
	if loc == nil {
		loc = time.Local
	}
	return &bookingService{
		bookingRepo: br,
		serviceRepo: sr,
		clients:     clients,
		db:          db,
		loc:         loc,
	}
}

func (s *bookingService) parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, s.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidBookingTime, value)
}

func validateBookingData(b *models.Booking) error {
	if b.EndTime.Before(b.StartTime) {
		return fmt.Errorf("%w: end time must not be before start time", ErrInvalidBookingTime)
	}
	if b.Participants < 1 {
		return fmt.Errorf("%w: participants must be at least 1", ErrBookingValidation)
	}
	if utils.IsEmpty(b.ServiceName) {
		return fmt.Errorf("%w: service name cannot be empty", ErrBookingValidation)
	}
	if b.TotalAmount != nil && *b.TotalAmount < 0 {
		return fmt.Errorf("%w: total amount cannot be negative", ErrBookingValidation)
	}
	return nil
}

func parseBookingStatus(status string) (models.BookingStatus, error) {
	if !models.IsValidBookingStatus(status) {
		return "", fmt.Errorf("%w: unknown status %q", ErrBookingValidation, status)
	}
	return models.BookingStatus(status), nil
}

// resolveService loads the referenced service and returns it, or nil when
// serviceID is empty.
func (s *bookingService) resolveService(ctx context.Context, serviceID *string) (*models.Service, error) {
	if serviceID == nil || utils.IsEmpty(*serviceID) {
		return nil, nil
	}
	if err := validateID(*serviceID); err != nil {
		return nil, err
	}
	svc, err := s.serviceRepo.GetServiceByID(ctx, *serviceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrServiceForBookingNotFound, *serviceID)
		}
		return nil, fmt.Errorf("failed to validate service for booking: %w", err)
	}
	return svc, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := validateID(req.ClientID); err != nil {
		return nil, err
	}
	if _, err := s.clients.GetClientByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrClientForBookingNotFound, req.ClientID)
		}
		return nil, fmt.Errorf("failed to validate client for booking: %w", err)
	}

	startTime, err := s.parseDateTime(req.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := s.parseDateTime(req.EndTime)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ClientID:     req.ClientID,
		StartTime:    startTime,
		EndTime:      endTime,
		Status:       models.BookingStatusPending,
		Participants: 1,
		TotalAmount:  req.TotalAmount,
		Notes:        optional(req.Notes),
		CreatedBy:    req.CreatedBy,
	}
	if req.Participants != nil {
		booking.Participants = *req.Participants
	}
	if req.Status != nil {
		if booking.Status, err = parseBookingStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	svc, err := s.resolveService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc != nil {
		booking.ServiceID = &svc.ID
		booking.ServiceName = svc.Name
	}
	if req.ServiceName != nil && !utils.IsEmpty(*req.ServiceName) {
		booking.ServiceName = strings.TrimSpace(*req.ServiceName)
	}

	if err := validateBookingData(booking); err != nil {
		return nil, err
	}

	created, err := s.bookingRepo.CreateBooking(ctx, s.db, booking)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("%w: %v", ErrClientForBookingNotFound, err)
		}
		return nil, fmt.Errorf("failed to create booking in repository: %w", err)
	}
	return created, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	if err := validateID(bookingID); err != nil {
		return nil, err
	}
	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by ID: %w", err)
	}
	return booking, nil
}

func (s *bookingService) GetBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, error) {
	if filters.ClientID != nil {
		if err := validateID(*filters.ClientID); err != nil {
			return nil, err
		}
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateTo.Before(*filters.DateFrom) {
		return nil, fmt.Errorf("%w: range end is before range start", ErrInvalidBookingTime)
	}
	bookings, err := s.bookingRepo.GetBookings(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, req UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil {
		if booking.StartTime, err = s.parseDateTime(*req.StartTime); err != nil {
			return nil, err
		}
	}
	if req.EndTime != nil {
		if booking.EndTime, err = s.parseDateTime(*req.EndTime); err != nil {
			return nil, err
		}
	}
	if req.ServiceID != nil {
		svc, err := s.resolveService(ctx, req.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			booking.ServiceID = nil
		} else {
			booking.ServiceID = &svc.ID
			booking.ServiceName = svc.Name
		}
	}
	if req.ServiceName != nil {
		booking.ServiceName = strings.TrimSpace(*req.ServiceName)
	}
	if req.Participants != nil {
		booking.Participants = *req.Participants
	}
	if req.TotalAmount != nil {
		booking.TotalAmount = req.TotalAmount
	}
	if req.Notes != nil {
		booking.Notes = optional(req.Notes)
	}
	if req.Status != nil {
		next, err := parseBookingStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		if !booking.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: booking %s -> %s", ErrInvalidTransition, booking.Status, next)
		}
		booking.Status = next
	}

	if err := validateBookingData(booking); err != nil {
		return nil, err
	}

	updated, err := s.bookingRepo.UpdateBooking(ctx, s.db, booking)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to update booking in repository: %w", err)
	}
	return updated, nil
}

// durationHours turns the intake duration ("1", "2", ..., "full-day") into hours.
func durationHours(duration string) (int, error) {
	duration = strings.TrimSpace(strings.ToLower(duration))
	if duration == FullDayDuration {
		return models.FullDayHours, nil
	}
	hours, err := strconv.Atoi(strings.TrimSuffix(duration, "h"))
	if err != nil || hours < 1 || hours > models.FullDayHours {
		return 0, fmt.Errorf("%w: unsupported duration %q", ErrBookingValidation, duration)
	}
	return hours, nil
}

func (s *bookingService) SubmitIntake(ctx context.Context, req IntakeRequest) (*models.Booking, error) {
	if err := validateID(req.ServiceID); err != nil {
		return nil, err
	}
	hours, err := durationHours(req.Duration)
	if err != nil {
		return nil, err
	}
	startTime, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(req.Date)+" "+strings.TrimSpace(req.Time), s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD and time HH:MM", ErrInvalidBookingTime)
	}
	participants := req.Participants
	if participants == 0 {
		participants = 1
	}

	svc, err := s.resolveService(ctx, &req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, fmt.Errorf("%w: service %s is not bookable", ErrServiceForBookingNotFound, svc.ID)
	}

	total := models.RoundCents(svc.Quote(hours))
	booking := &models.Booking{
		ServiceID:    &svc.ID,
		ServiceName:  svc.Name,
		StartTime:    startTime,
		EndTime:      startTime.Add(time.Duration(hours) * time.Hour),
		Status:       models.BookingStatusPending,
		Participants: participants,
		TotalAmount:  &total,
		Notes:        optional(req.SpecialRequests),
	}
	if err := validateBookingData(booking); err != nil {
		return nil, err
	}

	client, created, err := s.clients.FindOrCreateByEmail(ctx, CreateClientRequest{
		FullName: strings.TrimSpace(req.FirstName + " " + req.LastName),
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return nil, err
	}
	if created {
		utils.LogInfo("Created client from booking intake", map[string]interface{}{"client_id": client.ID})
	}
	booking.ClientID = client.ID

	createdBooking, err := s.bookingRepo.CreateBooking(ctx, s.db, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking from intake: %w", err)
	}
	return createdBooking, nil
}
