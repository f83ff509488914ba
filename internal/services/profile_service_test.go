package services

import (
	"context"
	"errors"
	"testing"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/repositories/memstore"
)

func TestGetProfile(t *testing.T) {
	const staffID = "22222222-2222-4222-8222-222222222222"
	store := memstore.New()
	store.SeedProfile(models.UserProfile{ID: staffID, Role: models.RoleStaff})
	store.SeedProfile(models.UserProfile{ID: "55555555-5555-4555-8555-555555555555", Role: "owner"})
	svc := NewProfileService(store.Profiles())

	tests := []struct {
		name   string
		userID string
		want   error
	}{
		{"known profile", staffID, nil},
		{"empty subject", "", ErrUnauthenticated},
		{"subject is not a uuid", "auth0|abc123", ErrProfileNotFound},
		{"unknown profile", "44444444-4444-4444-8444-444444444444", ErrProfileNotFound},
		{"unknown role", "55555555-5555-4555-8555-555555555555", ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetProfile(context.Background(), tt.userID)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetProfileDoesNotQueryInvalidSubject(t *testing.T) {
	store := memstore.New()
	store.Fail(memstore.EntityProfiles, errors.New("invalid input syntax for type uuid"))
	svc := NewProfileService(store.Profiles())

	_, err := svc.GetProfile(context.Background(), "not-a-uuid")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
	if kind := KindOf(err); kind != KindAuthorization {
		t.Errorf("kind = %q, want %q", kind, KindAuthorization)
	}
}

func TestGetSessionNavigation(t *testing.T) {
	const adminID = "11111111-1111-4111-8111-111111111111"
	store := memstore.New()
	store.SeedProfile(models.UserProfile{ID: adminID, Role: models.RoleAdmin})
	session, err := NewProfileService(store.Profiles()).GetSession(context.Background(), adminID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if len(session.Navigation) != len(models.NavigationFor(models.RoleAdmin)) || session.Profile.ID != adminID {
		t.Errorf("session = %+v", session)
	}
}
