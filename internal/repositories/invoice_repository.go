package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"facility_crm_backend/internal/models"

	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice-related database operations.
// Reads join the invoice's client and booking.
type InvoiceRepository interface {
	CreateInvoice(ctx context.Context, executor SQLExecutor, invoice *models.Invoice) (*models.Invoice, error)
	GetInvoiceByID(ctx context.Context, id string) (*models.Invoice, error)
	GetInvoices(ctx context.Context, filters models.InvoiceFilters) ([]models.Invoice, error) // newest first
	UpdateInvoice(ctx context.Context, executor SQLExecutor, invoice *models.Invoice) (*models.Invoice, error)
}

type invoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository creates a new instance of InvoiceRepository.
func NewInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceSelect = `SELECT
		i.id, i.client_id, i.booking_id, i.invoice_number, i.amount, i.tax_amount, i.total_amount,
		i.status, i.issued_at, i.due_date, i.paid_at, i.payment_method, i.notes, i.created_by,
		i.created_at, i.updated_at,
		c.id, c.full_name, c.email, c.phone,
		bk.id, bk.service_name, bk.start_time, bk.end_time, bk.status, bk.participants, bk.total_amount`

const invoiceJoins = ` LEFT JOIN clients c ON c.id = i.client_id LEFT JOIN bookings bk ON bk.id = i.booking_id`

func scanInvoiceRow(row scanner) (*models.Invoice, error) {
	var inv models.Invoice
	var bookingID, paymentMethod, notes, createdBy sql.NullString
	var dueDate, paidAt sql.NullTime
	var clientID, clientName, clientEmail, clientPhone sql.NullString
	var bkID, bkServiceName, bkStatus sql.NullString
	var bkStart, bkEnd sql.NullTime
	var bkParticipants sql.NullInt64
	var bkTotal sql.NullFloat64

	if err := row.Scan(
		&inv.ID, &inv.ClientID, &bookingID, &inv.InvoiceNumber, &inv.Amount, &inv.TaxAmount, &inv.TotalAmount,
		&inv.Status, &inv.IssuedAt, &dueDate, &paidAt, &paymentMethod, &notes, &createdBy,
		&inv.CreatedAt, &inv.UpdatedAt,
		&clientID, &clientName, &clientEmail, &clientPhone,
		&bkID, &bkServiceName, &bkStart, &bkEnd, &bkStatus, &bkParticipants, &bkTotal,
	); err != nil {
		return nil, err
	}
	inv.BookingID = stringPtr(bookingID)
	inv.DueDate = timePtr(dueDate)
	inv.PaidAt = timePtr(paidAt)
	inv.PaymentMethod = stringPtr(paymentMethod)
	inv.Notes = stringPtr(notes)
	inv.CreatedBy = stringPtr(createdBy)
	if clientID.Valid {
		inv.Client = &models.Client{
			ID:       clientID.String,
			FullName: clientName.String,
			Email:    clientEmail.String,
			Phone:    stringPtr(clientPhone),
		}
	}
	if bkID.Valid {
		inv.Booking = &models.Booking{
			ID:           bkID.String,
			ClientID:     inv.ClientID,
			ServiceName:  bkServiceName.String,
			StartTime:    bkStart.Time,
			EndTime:      bkEnd.Time,
			Status:       models.BookingStatus(bkStatus.String),
			Participants: int(bkParticipants.Int64),
			TotalAmount:  floatPtr(bkTotal),
		}
	}
	return &inv, nil
}

// CreateInvoice inserts an invoice. The invoice number comes from the column
// default, so the value on the argument is ignored.
func (r *invoiceRepository) CreateInvoice(ctx context.Context, executor SQLExecutor, invoice *models.Invoice) (*models.Invoice, error) {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if invoice.IssuedAt.IsZero() {
		invoice.IssuedAt = now
	}
	query := `WITH i AS (
	            INSERT INTO invoices (id, client_id, booking_id, amount, tax_amount, total_amount, status,
	                issued_at, due_date, paid_at, payment_method, notes, created_by, created_at, updated_at)
	            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	            RETURNING *)
	          ` + invoiceSelect + ` FROM i` + invoiceJoins

	created, err := scanInvoiceRow(executor.QueryRowContext(ctx, query,
		invoice.ID, invoice.ClientID, nullString(invoice.BookingID), invoice.Amount, invoice.TaxAmount,
		invoice.TotalAmount, invoice.Status, invoice.IssuedAt, nullTime(invoice.DueDate), nullTime(invoice.PaidAt),
		nullString(invoice.PaymentMethod), nullString(invoice.Notes), nullString(invoice.CreatedBy), now,
	))
	if err != nil {
		return nil, classifyError(err, "creating invoice")
	}
	return created, nil
}

// GetInvoiceByID retrieves an invoice with its client and booking.
func (r *invoiceRepository) GetInvoiceByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := invoiceSelect + ` FROM invoices i` + invoiceJoins + ` WHERE i.id = $1`
	invoice, err := scanInvoiceRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classifyError(err, fmt.Sprintf("getting invoice by ID %s", id))
	}
	return invoice, nil
}

// GetInvoices lists invoices matching filters, newest first.
func (r *invoiceRepository) GetInvoices(ctx context.Context, filters models.InvoiceFilters) ([]models.Invoice, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(invoiceSelect + ` FROM invoices i` + invoiceJoins)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("i.client_id = $%d", argCount))
		args = append(args, *filters.ClientID)
		argCount++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", argCount))
		args = append(args, string(*filters.Status))
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY i.created_at DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, classifyError(err, "querying invoices")
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		invoice, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning invoice: %v", ErrDatabaseError, err)
		}
		invoices = append(invoices, *invoice)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating invoice rows: %v", ErrDatabaseError, err)
	}
	return invoices, nil
}

// UpdateInvoice writes every mutable column and returns the stored row with its joins.
func (r *invoiceRepository) UpdateInvoice(ctx context.Context, executor SQLExecutor, invoice *models.Invoice) (*models.Invoice, error) {
	query := `WITH i AS (
	            UPDATE invoices SET
	                client_id = $1, booking_id = $2, amount = $3, tax_amount = $4, total_amount = $5,
	                status = $6, due_date = $7, paid_at = $8, payment_method = $9, notes = $10, updated_at = $11
	            WHERE id = $12
	            RETURNING *)
	          ` + invoiceSelect + ` FROM i` + invoiceJoins

	updated, err := scanInvoiceRow(executor.QueryRowContext(ctx, query,
		invoice.ClientID, nullString(invoice.BookingID), invoice.Amount, invoice.TaxAmount, invoice.TotalAmount,
		invoice.Status, nullTime(invoice.DueDate), nullTime(invoice.PaidAt), nullString(invoice.PaymentMethod),
		nullString(invoice.Notes), time.Now().UTC(), invoice.ID,
	))
	if err != nil {
		return nil, classifyError(err, fmt.Sprintf("updating invoice ID %s", invoice.ID))
	}
	return updated, nil
}
