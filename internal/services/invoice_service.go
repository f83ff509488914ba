package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/repositories"
)

// --- Custom Service Errors for Invoice ---
var (
	ErrInvoiceNotFound           = errors.New("invoice not found")
	ErrInvoiceValidation         = errors.New("invoice data validation error")
	ErrInvoiceTotalMismatch      = errors.New("total amount must equal amount plus tax")
	ErrClientForInvoiceNotFound  = errors.New("client specified for invoice not found")
	ErrBookingForInvoiceNotFound = errors.New("booking specified for invoice not found")
)

// --- Invoice DTOs ---
type CreateInvoiceRequest struct {
	ClientID  string   `json:"client_id" binding:"required"`
	BookingID *string  `json:"booking_id"`
	Amount    *float64 `json:"amount"` // defaults to the booking's total when a booking is given
	TaxAmount *float64 `json:"tax_amount"`
	// TotalAmount is optional; when present it must agree with amount + tax.
	TotalAmount   *float64 `json:"total_amount"`
	Status        *string  `json:"status"`
	DueDate       *string  `json:"due_date"` // Format YYYY-MM-DD
	PaymentMethod *string  `json:"payment_method"`
	Notes         *string  `json:"notes"`
	CreatedBy     *string  `json:"-"`
}

type UpdateInvoiceRequest struct {
	Amount        *float64 `json:"amount"`
	TaxAmount     *float64 `json:"tax_amount"`
	TotalAmount   *float64 `json:"total_amount"`
	Status        *string  `json:"status"`
	DueDate       *string  `json:"due_date"`
	PaymentMethod *string  `json:"payment_method"`
	Notes         *string  `json:"notes"`
}

// --- InvoiceService Interface ---
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*models.Invoice, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*models.Invoice, error)
	GetInvoices(ctx context.Context, filters models.InvoiceFilters) ([]models.Invoice, error)
	UpdateInvoice(ctx context.Context, invoiceID string, req UpdateInvoiceRequest) (*models.Invoice, error)
}

// --- invoiceService Implementation ---
type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	bookingRepo repositories.BookingRepository
	clients     ClientService
	db          repositories.SQLExecutor
	now         func() time.Time
}

// NewInvoiceService creates a new instance of InvoiceService.
func NewInvoiceService(
	ir repositories.InvoiceRepository,
	br repositories.BookingRepository,
	clients ClientService,
	db repositories.SQLExecutor,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: ir,
		bookingRepo: br,
		clients:     clients,
		db:          db,
		now:         time.Now,
	}
}

func parseInvoiceStatus(status string) (models.InvoiceStatus, error) {
	if !models.IsValidInvoiceStatus(status) {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvoiceValidation, status)
	}
	return models.InvoiceStatus(status), nil
}

func parseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	due, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, ErrDateFormat
	}
	return &due, nil
}

// applyTotals recomputes the total and rejects a caller-supplied total that
// disagrees with it.
func applyTotals(inv *models.Invoice, suppliedTotal *float64) error {
	if inv.Amount < 0 || inv.TaxAmount < 0 {
		return fmt.Errorf("%w: amount and tax cannot be negative", ErrInvoiceValidation)
	}
	inv.Amount = models.RoundCents(inv.Amount)
	inv.TaxAmount = models.RoundCents(inv.TaxAmount)
	inv.TotalAmount = models.InvoiceTotal(inv.Amount, inv.TaxAmount)
	if suppliedTotal != nil && math.Abs(*suppliedTotal-inv.TotalAmount) >= 0.005 {
		return fmt.Errorf("%w: got %.2f, expected %.2f", ErrInvoiceTotalMismatch, *suppliedTotal, inv.TotalAmount)
	}
	return nil
}

// stampPaid sets paid_at the first time an invoice becomes paid.
func (s *invoiceService) stampPaid(inv *models.Invoice) {
	if inv.Status == models.InvoiceStatusPaid && inv.PaidAt == nil {
		now := s.now().UTC()
		inv.PaidAt = &now
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*models.Invoice, error) {
	if err := validateID(req.ClientID); err != nil {
		return nil, err
	}
	if _, err := s.clients.GetClientByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrClientForInvoiceNotFound, req.ClientID)
		}
		return nil, fmt.Errorf("failed to validate client for invoice: %w", err)
	}

	invoice := &models.Invoice{
		ClientID:      req.ClientID,
		Status:        models.InvoiceStatusUnpaid,
		IssuedAt:      s.now().UTC(),
		PaymentMethod: optional(req.PaymentMethod),
		Notes:         optional(req.Notes),
		CreatedBy:     req.CreatedBy,
	}

	if req.BookingID != nil && *req.BookingID != "" {
		if err := validateID(*req.BookingID); err != nil {
			return nil, err
		}
		booking, err := s.bookingRepo.GetBookingByID(ctx, *req.BookingID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: ID %s", ErrBookingForInvoiceNotFound, *req.BookingID)
			}
			return nil, fmt.Errorf("failed to validate booking for invoice: %w", err)
		}
		if booking.ClientID != req.ClientID {
			return nil, fmt.Errorf("%w: booking %s belongs to another client", ErrInvoiceValidation, booking.ID)
		}
		invoice.BookingID = &booking.ID
		if req.Amount == nil && booking.TotalAmount != nil {
			invoice.Amount = *booking.TotalAmount
		}
	} else if req.Amount == nil {
		return nil, fmt.Errorf("%w: amount is required without a booking", ErrInvoiceValidation)
	}

	if req.Amount != nil {
		invoice.Amount = *req.Amount
	}
	if req.TaxAmount != nil {
		invoice.TaxAmount = *req.TaxAmount
	}
	if err := applyTotals(invoice, req.TotalAmount); err != nil {
		return nil, err
	}

	if req.Status != nil {
		status, err := parseInvoiceStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		invoice.Status = status
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		invoice.DueDate = due
	}
	s.stampPaid(invoice)

	created, err := s.invoiceRepo.CreateInvoice(ctx, s.db, invoice)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKey) {
			return nil, fmt.Errorf("%w: %v", ErrClientForInvoiceNotFound, err)
		}
		return nil, fmt.Errorf("failed to create invoice in repository: %w", err)
	}
	return created, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	if err := validateID(invoiceID); err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice by ID: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) GetInvoices(ctx context.Context, filters models.InvoiceFilters) ([]models.Invoice, error) {
	if filters.ClientID != nil {
		if err := validateID(*filters.ClientID); err != nil {
			return nil, err
		}
	}
	invoices, err := s.invoiceRepo.GetInvoices(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoices: %w", err)
	}
	return invoices, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req UpdateInvoiceRequest) (*models.Invoice, error) {
	invoice, err := s.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		invoice.Amount = *req.Amount
	}
	if req.TaxAmount != nil {
		invoice.TaxAmount = *req.TaxAmount
	}
	if err := applyTotals(invoice, req.TotalAmount); err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		if invoice.DueDate, err = parseDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.PaymentMethod != nil {
		invoice.PaymentMethod = optional(req.PaymentMethod)
	}
	if req.Notes != nil {
		invoice.Notes = optional(req.Notes)
	}
	if req.Status != nil {
		next, err := parseInvoiceStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		if !invoice.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: invoice %s -> %s", ErrInvalidTransition, invoice.Status, next)
		}
		invoice.Status = next
	}
	s.stampPaid(invoice)

	updated, err := s.invoiceRepo.UpdateInvoice(ctx, s.db, invoice)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to update invoice in repository: %w", err)
	}
	return updated, nil
}
