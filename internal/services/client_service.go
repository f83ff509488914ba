package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/repositories"
	"facility_crm_backend/pkg/utils"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrEmailExists      = errors.New("email already exists")
	ErrClientValidation = errors.New("client data validation error")
	ErrDateFormat       = errors.New("invalid date format, please use YYYY-MM-DD")
)

// --- Client DTOs ---
type CreateClientRequest struct {
	FullName              string  `json:"full_name" binding:"required"`
	Email                 string  `json:"email" binding:"required"`
	Phone                 *string `json:"phone"`
	Address               *string `json:"address"`
	DateOfBirth           *string `json:"date_of_birth"` // Format YYYY-MM-DD
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	Notes                 *string `json:"notes"`
}

type UpdateClientRequest struct {
	FullName              *string `json:"full_name"`
	Email                 *string `json:"email"`
	Phone                 *string `json:"phone"`
	Address               *string `json:"address"`
	DateOfBirth           *string `json:"date_of_birth"` // Format YYYY-MM-DD
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	Notes                 *string `json:"notes"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (*models.Client, error)
	GetClientByID(ctx context.Context, clientID string) (*models.Client, error)
	GetClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, clientID string, req UpdateClientRequest) (*models.Client, error)
	// FindOrCreateByEmail returns the existing client with req.Email, or creates
	// one. The bool reports whether a new row was created.
	FindOrCreateByEmail(ctx context.Context, req CreateClientRequest) (*models.Client, bool, error)
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
	db         repositories.SQLExecutor
	now        func() time.Time
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, db repositories.SQLExecutor) ClientService {
	return &clientService{
		clientRepo: repo,
		db:         db,
		now:        time.Now,
	}
}

func (s *clientService) validateClientData(client *models.Client) error {
	if utils.IsEmpty(client.FullName) {
		return fmt.Errorf("%w: full name cannot be empty", ErrClientValidation)
	}
	if utils.IsEmpty(client.Email) {
		return fmt.Errorf("%w: email cannot be empty", ErrClientValidation)
	}
	if !utils.IsValidEmail(client.Email) {
		return fmt.Errorf("%w: email format is invalid", ErrClientValidation)
	}
	if client.DateOfBirth != nil {
		if err := s.validateDateOfBirth(*client.DateOfBirth); err != nil {
			return err
		}
	}
	return nil
}

func (s *clientService) validateDateOfBirth(dob string) error {
	parsed, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return ErrDateFormat
	}
	if parsed.After(s.now()) {
		return fmt.Errorf("%w: date of birth cannot be in the future", ErrClientValidation)
	}
	return nil
}

// optional trims an optional field and turns blank values into nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.NewNullString(strings.TrimSpace(*s))
}

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (*models.Client, error) {
	client := &models.Client{
		FullName:              strings.TrimSpace(req.FullName),
		Email:                 strings.TrimSpace(req.Email),
		Phone:                 optional(req.Phone),
		Address:               optional(req.Address),
		DateOfBirth:           optional(req.DateOfBirth),
		EmergencyContactName:  optional(req.EmergencyContactName),
		EmergencyContactPhone: optional(req.EmergencyContactPhone),
		Notes:                 optional(req.Notes),
	}
	if err := s.validateClientData(client); err != nil {
		return nil, err
	}

	created, err := s.clientRepo.CreateClient(ctx, s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrEmailExists, err)
		}
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	return created, nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID string) (*models.Client, error) {
	if err := validateID(clientID); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.clientRepo.GetClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID string, req UpdateClientRequest) (*models.Client, error) {
	client, err := s.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		client.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		client.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		client.Phone = optional(req.Phone)
	}
	if req.Address != nil {
		client.Address = optional(req.Address)
	}
	if req.DateOfBirth != nil {
		client.DateOfBirth = optional(req.DateOfBirth)
	}
	if req.EmergencyContactName != nil {
		client.EmergencyContactName = optional(req.EmergencyContactName)
	}
	if req.EmergencyContactPhone != nil {
		client.EmergencyContactPhone = optional(req.EmergencyContactPhone)
	}
	if req.Notes != nil {
		client.Notes = optional(req.Notes)
	}
	if err := s.validateClientData(client); err != nil {
		return nil, err
	}

	updated, err := s.clientRepo.UpdateClient(ctx, s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrEmailExists, err)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to update client in repository: %w", err)
	}
	return updated, nil
}

func (s *clientService) FindOrCreateByEmail(ctx context.Context, req CreateClientRequest) (*models.Client, bool, error) {
	email := strings.TrimSpace(req.Email)
	if !utils.IsValidEmail(email) {
		return nil, false, fmt.Errorf("%w: email format is invalid", ErrClientValidation)
	}
	existing, err := s.clientRepo.GetClientByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up client by email: %w", err)
	}
	created, err := s.CreateClient(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
