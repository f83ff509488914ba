package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/repositories/memstore"
)

func floatPtr(f float64) *float64 { return &f }

type bookingFixture struct {
	store   *memstore.Store
	svc     BookingService
	client  *models.Client
	service models.Service
}

func newBookingFixture(t *testing.T) bookingFixture {
	t.Helper()
	store := memstore.New()
	clients := newClientServiceForTest(store)
	client, err := clients.CreateClient(context.Background(), CreateClientRequest{FullName: "Mia Chen", Email: "mia@example.com"})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	service := store.SeedService(models.Service{Name: "Court Rental", PricePerHour: floatPtr(40), IsActive: true})
	return bookingFixture{
		store:   store,
		svc:     NewBookingService(store.Bookings(), store.Services(), clients, nil, time.UTC),
		client:  client,
		service: service,
	}
}

func TestCreateBookingDefaults(t *testing.T) {
	f := newBookingFixture(t)
	b, err := f.svc.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID:  f.client.ID,
		ServiceID: &f.service.ID,
		StartTime: "2024-06-01T10:00",
		EndTime:   "2024-06-01T12:00",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.Status != models.BookingStatusPending {
		t.Errorf("Status = %q, want pending", b.Status)
	}
	if b.Participants != 1 {
		t.Errorf("Participants = %d, want 1", b.Participants)
	}
	if b.ServiceName != "Court Rental" {
		t.Errorf("ServiceName = %q, want service name copied", b.ServiceName)
	}
	if b.ClientName() != "Mia Chen" {
		t.Errorf("ClientName = %q, want joined client", b.ClientName())
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newBookingFixture(t)
	zero := 0
	tests := []struct {
		name string
		req  CreateBookingRequest
		want error
	}{
		{"end before start", CreateBookingRequest{ClientID: f.client.ID, ServiceName: strPtr("Gym"), StartTime: "2024-06-01T12:00", EndTime: "2024-06-01T10:00"}, ErrInvalidBookingTime},
		{"unparseable time", CreateBookingRequest{ClientID: f.client.ID, ServiceName: strPtr("Gym"), StartTime: "noon", EndTime: "2024-06-01T10:00"}, ErrInvalidBookingTime},
		{"no participants", CreateBookingRequest{ClientID: f.client.ID, ServiceName: strPtr("Gym"), StartTime: "2024-06-01T10:00", EndTime: "2024-06-01T11:00", Participants: &zero}, ErrBookingValidation},
		{"no service name", CreateBookingRequest{ClientID: f.client.ID, StartTime: "2024-06-01T10:00", EndTime: "2024-06-01T11:00"}, ErrBookingValidation},
		{"unknown status", CreateBookingRequest{ClientID: f.client.ID, ServiceName: strPtr("Gym"), StartTime: "2024-06-01T10:00", EndTime: "2024-06-01T11:00", Status: strPtr("maybe")}, ErrBookingValidation},
		{"missing client", CreateBookingRequest{ClientID: "6f1c2d1e-8d2a-4b57-9a3e-3b1f0f1e2a10", ServiceName: strPtr("Gym"), StartTime: "2024-06-01T10:00", EndTime: "2024-06-01T11:00"}, ErrClientForBookingNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateBooking(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if KindOf(err) != KindValidation {
				t.Errorf("KindOf = %q, want validation", KindOf(err))
			}
		})
	}
}

func TestCreateBookingEqualStartAndEnd(t *testing.T) {
	f := newBookingFixture(t)
	_, err := f.svc.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: f.client.ID, ServiceName: strPtr("Gym"),
		StartTime: "2024-06-01T10:00", EndTime: "2024-06-01T10:00",
	})
	if err != nil {
		t.Fatalf("equal start and end should be accepted: %v", err)
	}
}

func TestUpdateBookingTransitions(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	b, err := f.svc.CreateBooking(ctx, CreateBookingRequest{
		ClientID: f.client.ID, ServiceName: strPtr("Gym"),
		StartTime: "2024-06-01T10:00", EndTime: "2024-06-01T11:00",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	steps := []struct {
		status  string
		wantErr error
	}{
		{"completed", ErrInvalidTransition},
		{"pending", nil},
		{"confirmed", nil},
		{"completed", nil},
		{"cancelled", ErrInvalidTransition},
	}
	for _, step := range steps {
		_, err := f.svc.UpdateBooking(ctx, b.ID, UpdateBookingRequest{Status: strPtr(step.status)})
		if !errors.Is(err, step.wantErr) {
			t.Fatalf("-> %s: err = %v, want %v", step.status, err, step.wantErr)
		}
	}

	got, err := f.svc.GetBookingByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBookingByID: %v", err)
	}
	if got.Status != models.BookingStatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
}

func TestGetBookingsDateRangeAscending(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	for _, start := range []string{"2024-06-03T10:00", "2024-06-01T10:00", "2024-07-02T10:00"} {
		if _, err := f.svc.CreateBooking(ctx, CreateBookingRequest{
			ClientID: f.client.ID, ServiceName: strPtr("Gym"), StartTime: start, EndTime: start,
		}); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
	got, err := f.svc.GetBookings(ctx, models.BookingFilters{DateFrom: &from, DateTo: &to, Ascending: true})
	if err != nil {
		t.Fatalf("GetBookings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].StartTime.Before(got[1].StartTime) {
		t.Errorf("expected ascending order, got %v then %v", got[0].StartTime, got[1].StartTime)
	}
}

func TestSubmitIntake(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, err := f.svc.SubmitIntake(ctx, IntakeRequest{
		ServiceID:       f.service.ID,
		Date:            "2024-06-10",
		Time:            "09:30",
		Duration:        "2",
		Participants:    4,
		FirstName:       "Ana",
		LastName:        "Silva",
		Email:           "ana@example.com",
		SpecialRequests: strPtr("Need nets"),
	})
	if err != nil {
		t.Fatalf("SubmitIntake: %v", err)
	}
	if b.Status != models.BookingStatusPending {
		t.Errorf("Status = %q, want pending", b.Status)
	}
	if b.TotalAmount == nil || *b.TotalAmount != 80 {
		t.Errorf("TotalAmount = %v, want 80", b.TotalAmount)
	}
	if want := b.StartTime.Add(2 * time.Hour); !b.EndTime.Equal(want) {
		t.Errorf("EndTime = %v, want %v", b.EndTime, want)
	}
	if b.ClientName() != "Ana Silva" {
		t.Errorf("ClientName = %q, want new client", b.ClientName())
	}

	full, err := f.svc.SubmitIntake(ctx, IntakeRequest{
		ServiceID: f.service.ID, Date: "2024-06-11", Time: "08:00", Duration: FullDayDuration,
		FirstName: "Mia", LastName: "Chen", Email: "mia@example.com",
	})
	if err != nil {
		t.Fatalf("SubmitIntake full day: %v", err)
	}
	if full.ClientID != f.client.ID {
		t.Errorf("expected existing client to be reused")
	}
	if *full.TotalAmount != 320 || full.Participants != 1 {
		t.Errorf("full day: total=%v participants=%d", *full.TotalAmount, full.Participants)
	}
}

func TestSubmitIntakeRejectsBadInput(t *testing.T) {
	f := newBookingFixture(t)
	base := IntakeRequest{ServiceID: f.service.ID, Date: "2024-06-10", Time: "09:30", Duration: "1", FirstName: "A", LastName: "B", Email: "ab@example.com"}

	bad := base
	bad.Duration = "forever"
	if _, err := f.svc.SubmitIntake(context.Background(), bad); !errors.Is(err, ErrBookingValidation) {
		t.Errorf("duration: err = %v", err)
	}
	bad = base
	bad.Time = "9am"
	if _, err := f.svc.SubmitIntake(context.Background(), bad); !errors.Is(err, ErrInvalidBookingTime) {
		t.Errorf("time: err = %v", err)
	}
	bad = base
	bad.ServiceID = "6f1c2d1e-8d2a-4b57-9a3e-3b1f0f1e2a10"
	if _, err := f.svc.SubmitIntake(context.Background(), bad); !errors.Is(err, ErrServiceForBookingNotFound) {
		t.Errorf("service: err = %v", err)
	}

	before, err := f.store.Clients().GetClients(context.Background())
	if err != nil {
		t.Fatalf("GetClients: %v", err)
	}
	bad = base
	bad.Email = "new-intake@example.com"
	bad.Participants = -2
	if _, err := f.svc.SubmitIntake(context.Background(), bad); !errors.Is(err, ErrBookingValidation) {
		t.Errorf("participants: err = %v", err)
	}
	after, err := f.store.Clients().GetClients(context.Background())
	if err != nil {
		t.Fatalf("GetClients: %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("rejected intake created a client: %d clients before, %d after", len(before), len(after))
	}
}
