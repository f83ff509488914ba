package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"facility_crm_backend/internal/repositories/memstore"
)

func strPtr(s string) *string { return &s }

func newClientServiceForTest(store *memstore.Store) *clientService {
	svc := NewClientService(store.Clients(), nil).(*clientService)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newClientServiceForTest(memstore.New())

	created, err := svc.CreateClient(ctx, CreateClientRequest{
		FullName:    "  Mia Chen ",
		Email:       "mia@example.com",
		Phone:       strPtr("555-0101"),
		DateOfBirth: strPtr("1990-04-02"),
		Notes:       strPtr("   "),
	})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated ID")
	}
	if created.FullName != "Mia Chen" {
		t.Errorf("FullName = %q, want trimmed name", created.FullName)
	}
	if created.Notes != nil {
		t.Errorf("blank notes should be stored as nil, got %q", *created.Notes)
	}

	got, err := svc.GetClientByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetClientByID: %v", err)
	}
	if got.Email != created.Email || *got.Phone != "555-0101" || *got.DateOfBirth != "1990-04-02" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestCreateClientValidation(t *testing.T) {
	svc := newClientServiceForTest(memstore.New())
	tests := []struct {
		name string
		req  CreateClientRequest
		want error
	}{
		{"empty name", CreateClientRequest{FullName: " ", Email: "a@b.co"}, ErrClientValidation},
		{"bad email", CreateClientRequest{FullName: "A", Email: "not-an-email"}, ErrClientValidation},
		{"bad dob format", CreateClientRequest{FullName: "A", Email: "a@b.co", DateOfBirth: strPtr("02/04/1990")}, ErrDateFormat},
		{"future dob", CreateClientRequest{FullName: "A", Email: "a@b.co", DateOfBirth: strPtr("2030-01-01")}, ErrClientValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateClient(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if KindOf(err) != KindValidation {
				t.Errorf("KindOf = %q, want validation", KindOf(err))
			}
		})
	}
}

func TestCreateClientDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newClientServiceForTest(memstore.New())
	req := CreateClientRequest{FullName: "Mia Chen", Email: "mia@example.com"}
	if _, err := svc.CreateClient(ctx, req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateClient(ctx, req)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
	if KindOf(err) != KindConflict {
		t.Errorf("KindOf = %q, want conflict", KindOf(err))
	}
}

func TestUpdateClient(t *testing.T) {
	ctx := context.Background()
	svc := newClientServiceForTest(memstore.New())
	created, err := svc.CreateClient(ctx, CreateClientRequest{FullName: "Mia Chen", Email: "mia@example.com"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	updated, err := svc.UpdateClient(ctx, created.ID, UpdateClientRequest{Address: strPtr("1 Court St")})
	if err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}
	if updated.FullName != "Mia Chen" || updated.Address == nil || *updated.Address != "1 Court St" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	_, err = svc.UpdateClient(ctx, created.ID, UpdateClientRequest{Email: strPtr("broken")})
	if !errors.Is(err, ErrClientValidation) {
		t.Errorf("err = %v, want ErrClientValidation", err)
	}
}

func TestGetClientErrors(t *testing.T) {
	svc := newClientServiceForTest(memstore.New())
	if _, err := svc.GetClientByID(context.Background(), "42"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("err = %v, want ErrInvalidID", err)
	}
	_, err := svc.GetClientByID(context.Background(), "6f1c2d1e-8d2a-4b57-9a3e-3b1f0f1e2a10")
	if !errors.Is(err, ErrClientNotFound) {
		t.Errorf("err = %v, want ErrClientNotFound", err)
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %q, want not_found", KindOf(err))
	}
}

func TestFindOrCreateByEmail(t *testing.T) {
	ctx := context.Background()
	svc := newClientServiceForTest(memstore.New())
	req := CreateClientRequest{FullName: "Leo Park", Email: "leo@example.com"}

	first, created, err := svc.FindOrCreateByEmail(ctx, req)
	if err != nil || !created {
		t.Fatalf("first call: created=%v err=%v", created, err)
	}
	second, created, err := svc.FindOrCreateByEmail(ctx, CreateClientRequest{FullName: "Other", Email: "LEO@example.com"})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if created || second.ID != first.ID {
		t.Errorf("expected existing client %s, got %s (created=%v)", first.ID, second.ID, created)
	}
}
