package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"facility_crm_backend/internal/models"
)

// ProfileRepository reads user profiles. Profiles are provisioned by the
// identity provider's sign-up hook, never by this service.
type ProfileRepository interface {
	GetProfileByID(ctx context.Context, userID string) (*models.UserProfile, error)
}

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetProfileByID retrieves the profile keyed by the session's user ID.
func (r *profileRepository) GetProfileByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `SELECT id, client_id, role, full_name, email, phone, created_at, updated_at
	          FROM profiles WHERE id = $1`

	var p models.UserProfile
	var clientID, fullName, email, phone sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &clientID, &p.Role, &fullName, &email, &phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, classifyError(err, fmt.Sprintf("getting profile for user %s", userID))
	}
	p.ClientID = stringPtr(clientID)
	p.FullName = stringPtr(fullName)
	p.Email = stringPtr(email)
	p.Phone = stringPtr(phone)
	return &p, nil
}
