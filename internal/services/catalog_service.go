package services

import (
	"context"
	"errors"
	"fmt"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/repositories"
)

var ErrServiceNotFound = errors.New("service not found")

// CatalogService exposes the read-only list of bookable services.
type CatalogService interface {
	GetActiveServices(ctx context.Context) ([]models.Service, error)
	GetServiceByID(ctx context.Context, serviceID string) (*models.Service, error)
}

type catalogService struct {
	serviceRepo repositories.ServiceRepository
}

func NewCatalogService(repo repositories.ServiceRepository) CatalogService {
	return &catalogService{serviceRepo: repo}
}

func (s *catalogService) GetActiveServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.serviceRepo.GetActiveServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get services: %w", err)
	}
	return services, nil
}

func (s *catalogService) GetServiceByID(ctx context.Context, serviceID string) (*models.Service, error) {
	if err := validateID(serviceID); err != nil {
		return nil, err
	}
	svc, err := s.serviceRepo.GetServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service by ID: %w", err)
	}
	return svc, nil
}
