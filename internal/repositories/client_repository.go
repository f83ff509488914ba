package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"facility_crm_backend/internal/models"

	"github.com/google/uuid"
)

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(ctx context.Context, executor SQLExecutor, client *models.Client) (*models.Client, error)
	GetClientByID(ctx context.Context, id string) (*models.Client, error)
	GetClientByEmail(ctx context.Context, email string) (*models.Client, error)
	GetClients(ctx context.Context) ([]models.Client, error) // newest first
	UpdateClient(ctx context.Context, executor SQLExecutor, client *models.Client) (*models.Client, error)
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, full_name, email, phone, address, date_of_birth,
	emergency_contact_name, emergency_contact_phone, notes, created_at, updated_at`

func scanClient(row scanner) (*models.Client, error) {
	var client models.Client
	var phone, address, ecName, ecPhone, notes sql.NullString
	var dob sql.NullTime
	if err := row.Scan(
		&client.ID, &client.FullName, &client.Email, &phone, &address, &dob,
		&ecName, &ecPhone, &notes, &client.CreatedAt, &client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	client.Phone = stringPtr(phone)
	client.Address = stringPtr(address)
	client.EmergencyContactName = stringPtr(ecName)
	client.EmergencyContactPhone = stringPtr(ecPhone)
	client.Notes = stringPtr(notes)
	if dob.Valid {
		formatted := dob.Time.Format("2006-01-02")
		client.DateOfBirth = &formatted
	}
	return &client, nil
}

// CreateClient inserts a new client and returns the stored row.
func (r *clientRepository) CreateClient(ctx context.Context, executor SQLExecutor, client *models.Client) (*models.Client, error) {
	query := `INSERT INTO clients (id, full_name, email, phone, address, date_of_birth,
	              emergency_contact_name, emergency_contact_phone, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	          RETURNING ` + clientColumns

	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	created, err := scanClient(executor.QueryRowContext(ctx, query,
		client.ID, client.FullName, client.Email, nullString(client.Phone), nullString(client.Address),
		nullString(client.DateOfBirth), nullString(client.EmergencyContactName),
		nullString(client.EmergencyContactPhone), nullString(client.Notes), now,
	))
	if err != nil {
		return nil, classifyError(err, "creating client")
	}
	return created, nil
}

// GetClientByID retrieves a client by their ID.
func (r *clientRepository) GetClientByID(ctx context.Context, id string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	client, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classifyError(err, fmt.Sprintf("getting client by ID %s", id))
	}
	return client, nil
}

// GetClientByEmail retrieves a client by email, compared case-insensitively.
func (r *clientRepository) GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE LOWER(email) = LOWER($1)
	          ORDER BY created_at ASC LIMIT 1`
	client, err := scanClient(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, classifyError(err, fmt.Sprintf("getting client by email %s", email))
	}
	return client, nil
}

// GetClients retrieves every client, newest first.
func (r *clientRepository) GetClients(ctx context.Context) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyError(err, "querying clients")
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, *client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// UpdateClient writes every mutable column of client and returns the stored row.
func (r *clientRepository) UpdateClient(ctx context.Context, executor SQLExecutor, client *models.Client) (*models.Client, error) {
	query := `UPDATE clients SET
	            full_name = $1, email = $2, phone = $3, address = $4, date_of_birth = $5,
	            emergency_contact_name = $6, emergency_contact_phone = $7, notes = $8, updated_at = $9
	          WHERE id = $10
	          RETURNING ` + clientColumns

	updated, err := scanClient(executor.QueryRowContext(ctx, query,
		client.FullName, client.Email, nullString(client.Phone), nullString(client.Address),
		nullString(client.DateOfBirth), nullString(client.EmergencyContactName),
		nullString(client.EmergencyContactPhone), nullString(client.Notes), time.Now().UTC(), client.ID,
	))
	if err != nil {
		return nil, classifyError(err, fmt.Sprintf("updating client ID %s", client.ID))
	}
	return updated, nil
}
