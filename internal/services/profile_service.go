package services

import (
	"context"
	"errors"
	"fmt"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/repositories"
)

// ErrProfileNotFound means the session is valid but no profile row backs it.
var ErrProfileNotFound = errors.New("user profile not found")

// Session is the signed-in user together with their navigation menu.
type Session struct {
	Profile    *models.UserProfile `json:"profile"`
	Navigation []models.NavItem    `json:"navigation"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	GetSession(ctx context.Context, userID string) (*Session, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileService(repo repositories.ProfileRepository) ProfileService {
	return &profileService{profileRepo: repo}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateID(userID); err != nil {
		return nil, fmt.Errorf("%w: subject %q is not a user id", ErrProfileNotFound, userID)
	}
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if !models.IsValidRole(string(profile.Role)) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrForbidden, profile.Role)
	}
	return profile, nil
}

func (s *profileService) GetSession(ctx context.Context, userID string) (*Session, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Session{Profile: profile, Navigation: models.NavigationFor(profile.Role)}, nil
}
