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

// BookingRepository defines the interface for booking-related database operations.
// Every read joins the booking's client.
type BookingRepository interface {
	CreateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error)
}

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const bookingSelect = `SELECT
		b.id, b.client_id, b.service_id, b.service_name, b.start_time, b.end_time, b.status,
		b.participants, b.total_amount, b.notes, b.created_by, b.created_at, b.updated_at,
		c.id, c.full_name, c.email, c.phone, c.created_at, c.updated_at`

// scanBookingRow scans a booking row and its LEFT JOINed client.
func scanBookingRow(row scanner) (*models.Booking, error) {
	var b models.Booking
	var serviceID, notes, createdBy sql.NullString
	var total sql.NullFloat64
	var clientID, clientName, clientEmail, clientPhone sql.NullString
	var clientCreated, clientUpdated sql.NullTime

	if err := row.Scan(
		&b.ID, &b.ClientID, &serviceID, &b.ServiceName, &b.StartTime, &b.EndTime, &b.Status,
		&b.Participants, &total, &notes, &createdBy, &b.CreatedAt, &b.UpdatedAt,
		&clientID, &clientName, &clientEmail, &clientPhone, &clientCreated, &clientUpdated,
	); err != nil {
		return nil, err
	}
	b.ServiceID = stringPtr(serviceID)
	b.TotalAmount = floatPtr(total)
	b.Notes = stringPtr(notes)
	b.CreatedBy = stringPtr(createdBy)
	if clientID.Valid {
		b.Client = &models.Client{
			ID:        clientID.String,
			FullName:  clientName.String,
			Email:     clientEmail.String,
			Phone:     stringPtr(clientPhone),
			CreatedAt: clientCreated.Time,
			UpdatedAt: clientUpdated.Time,
		}
	}
	return &b, nil
}

// CreateBooking inserts a booking and returns it joined with its client in one round trip.
func (r *bookingRepository) CreateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	query := `WITH b AS (
	            INSERT INTO bookings (id, client_id, service_id, service_name, start_time, end_time, status,
	                participants, total_amount, notes, created_by, created_at, updated_at)
	            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	            RETURNING *)
	          ` + bookingSelect + ` FROM b LEFT JOIN clients c ON c.id = b.client_id`

	created, err := scanBookingRow(executor.QueryRowContext(ctx, query,
		booking.ID, booking.ClientID, nullString(booking.ServiceID), booking.ServiceName,
		booking.StartTime, booking.EndTime, booking.Status, booking.Participants,
		nullFloat(booking.TotalAmount), nullString(booking.Notes), nullString(booking.CreatedBy), now,
	))
	if err != nil {
		return nil, classifyError(err, "creating booking")
	}
	return created, nil
}

// GetBookingByID retrieves a booking with its client.
func (r *bookingRepository) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	query := bookingSelect + ` FROM bookings b LEFT JOIN clients c ON c.id = b.client_id WHERE b.id = $1`
	booking, err := scanBookingRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classifyError(err, fmt.Sprintf("getting booking by ID %s", id))
	}
	return booking, nil
}

// GetBookings lists bookings matching filters, newest start first unless
// filters.Ascending is set.
func (r *bookingRepository) GetBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(bookingSelect + ` FROM bookings b LEFT JOIN clients c ON c.id = b.client_id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("b.client_id = $%d", argCount))
		args = append(args, *filters.ClientID)
		argCount++
	}
	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argCount))
		args = append(args, string(*filters.Status))
		argCount++
	}
	if filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("b.start_time >= $%d", argCount))
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("b.start_time <= $%d", argCount))
		args = append(args, *filters.DateTo)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	if filters.Ascending {
		queryBuilder.WriteString(" ORDER BY b.start_time ASC")
	} else {
		queryBuilder.WriteString(" ORDER BY b.start_time DESC")
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, classifyError(err, "querying bookings")
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		booking, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning booking: %v", ErrDatabaseError, err)
		}
		bookings = append(bookings, *booking)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating booking rows: %v", ErrDatabaseError, err)
	}
	return bookings, nil
}

// UpdateBooking writes every mutable column and returns the stored row with its client.
func (r *bookingRepository) UpdateBooking(ctx context.Context, executor SQLExecutor, booking *models.Booking) (*models.Booking, error) {
	query := `WITH b AS (
	            UPDATE bookings SET
	                client_id = $1, service_id = $2, service_name = $3, start_time = $4, end_time = $5,
	                status = $6, participants = $7, total_amount = $8, notes = $9, updated_at = $10
	            WHERE id = $11
	            RETURNING *)
	          ` + bookingSelect + ` FROM b LEFT JOIN clients c ON c.id = b.client_id`

	updated, err := scanBookingRow(executor.QueryRowContext(ctx, query,
		booking.ClientID, nullString(booking.ServiceID), booking.ServiceName, booking.StartTime,
		booking.EndTime, booking.Status, booking.Participants, nullFloat(booking.TotalAmount),
		nullString(booking.Notes), time.Now().UTC(), booking.ID,
	))
	if err != nil {
		return nil, classifyError(err, fmt.Sprintf("updating booking ID %s", booking.ID))
	}
	return updated, nil
}
