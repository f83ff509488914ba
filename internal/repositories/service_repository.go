package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"facility_crm_backend/internal/models"
)

// ServiceRepository reads the service catalog. Services are managed outside
// this application, so there are no write methods.
type ServiceRepository interface {
	GetActiveServices(ctx context.Context) ([]models.Service, error)
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
}

type serviceRepository struct {
	db *sql.DB
}

// NewServiceRepository creates a new instance of ServiceRepository.
func NewServiceRepository(db *sql.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

const serviceColumns = `id, name, description, price_per_hour, price_per_session, price_per_month, is_active, created_at`

func scanService(row scanner) (*models.Service, error) {
	var s models.Service
	var description sql.NullString
	var perHour, perSession, perMonth sql.NullFloat64
	if err := row.Scan(&s.ID, &s.Name, &description, &perHour, &perSession, &perMonth, &s.IsActive, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Description = stringPtr(description)
	s.PricePerHour = floatPtr(perHour)
	s.PricePerSession = floatPtr(perSession)
	s.PricePerMonth = floatPtr(perMonth)
	return &s, nil
}

// GetActiveServices lists active services ordered by name.
func (r *serviceRepository) GetActiveServices(ctx context.Context) ([]models.Service, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE is_active = TRUE ORDER BY name ASC`)
	if err != nil {
		return nil, classifyError(err, "querying services")
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning service: %v", ErrDatabaseError, err)
		}
		services = append(services, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating service rows: %v", ErrDatabaseError, err)
	}
	return services, nil
}

// GetServiceByID retrieves a service regardless of its active flag.
func (r *serviceRepository) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	s, err := scanService(r.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		return nil, classifyError(err, fmt.Sprintf("getting service by ID %s", id))
	}
	return s, nil
}
