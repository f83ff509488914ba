package views

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/repositories"
	"facility_crm_backend/internal/repositories/memstore"
	"facility_crm_backend/internal/services"
)

func amount(v float64) *float64 { return &v }

type fixture struct {
	store    *memstore.Store
	clients  services.ClientService
	bookings services.BookingService
	invoices services.InvoiceService
	catalog  services.CatalogService
}

func newFixture() fixture {
	store := memstore.New()
	clients := services.NewClientService(store.Clients(), nil)
	return fixture{
		store:    store,
		clients:  clients,
		bookings: services.NewBookingService(store.Bookings(), store.Services(), clients, nil, time.UTC),
		invoices: services.NewInvoiceService(store.Invoices(), store.Bookings(), clients, nil),
		catalog:  services.NewCatalogService(store.Services()),
	}
}

func TestFilterClientsBySearch(t *testing.T) {
	clients := []models.Client{
		{FullName: "Mia Chen", Email: "mia@example.com"},
		{FullName: "Leo Park", Email: "leo@example.com"},
		{FullName: "Ana Silva", Email: "ana@example.com"},
	}
	got := FilterRecords(clients, "mia", "", ClientSearchFields, nil)
	if len(got) != 1 || got[0].FullName != "Mia Chen" {
		t.Fatalf("search %q = %+v, want only Mia Chen", "mia", got)
	}
	if got := FilterRecords(clients, "", StatusAll, ClientSearchFields, nil); len(got) != 3 {
		t.Errorf("empty search should keep all, got %d", len(got))
	}
}

func sampleInvoices() []models.Invoice {
	mia := &models.Client{FullName: "Mia Chen"}
	leo := &models.Client{FullName: "Leo Park"}
	return []models.Invoice{
		{InvoiceNumber: "INV-1", Status: models.InvoiceStatusOverdue, Client: mia},
		{InvoiceNumber: "INV-2", Status: models.InvoiceStatusPaid, Client: mia},
		{InvoiceNumber: "INV-3", Status: models.InvoiceStatusOverdue, Client: leo},
		{InvoiceNumber: "INV-4", Status: models.InvoiceStatusUnpaid, Client: leo},
	}
}

func TestFilterInvoicesByStatus(t *testing.T) {
	got := FilterRecords(sampleInvoices(), "", "overdue", InvoiceSearchFields, InvoiceStatusOf)
	if len(got) != 2 {
		t.Fatalf("overdue filter returned %d invoices, want 2", len(got))
	}
	for _, inv := range got {
		if inv.Status != models.InvoiceStatusOverdue {
			t.Errorf("unexpected status %q", inv.Status)
		}
	}
}

func TestFilterIdempotentAndCommutative(t *testing.T) {
	invoices := sampleInvoices()
	cases := []struct{ search, status string }{
		{"mia", "overdue"},
		{"inv-", "all"},
		{"LEO", "unpaid"},
		{"", "paid"},
		{"nobody", ""},
	}
	for _, tc := range cases {
		once := FilterRecords(invoices, tc.search, tc.status, InvoiceSearchFields, InvoiceStatusOf)
		twice := FilterRecords(once, tc.search, tc.status, InvoiceSearchFields, InvoiceStatusOf)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("%+v: filter is not idempotent", tc)
		}
		searchFirst := FilterRecords(FilterRecords(invoices, tc.search, "", InvoiceSearchFields, InvoiceStatusOf), "", tc.status, InvoiceSearchFields, InvoiceStatusOf)
		statusFirst := FilterRecords(FilterRecords(invoices, "", tc.status, InvoiceSearchFields, InvoiceStatusOf), tc.search, "", InvoiceSearchFields, InvoiceStatusOf)
		if !reflect.DeepEqual(searchFirst, statusFirst) || !reflect.DeepEqual(searchFirst, once) {
			t.Errorf("%+v: search and status filters do not commute", tc)
		}
	}
}

func TestClientsPageSubmitFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.SeedClient(models.Client{FullName: "Leo Park", Email: "leo@example.com"})

	page := NewClientsPage(ctx, f.clients)
	defer page.Close()
	if err := page.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	page.OpenNew()
	created, err := page.Create(ctx, services.CreateClientRequest{FullName: "Mia Chen", Email: "mia@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	state := page.State()
	if len(state.Records) != 2 || state.Records[0].ID != created.ID {
		t.Fatalf("created client should be prepended, got %+v", state.Records)
	}
	if state.Modal.Mode != ModalNone {
		t.Errorf("modal should close after a successful submit")
	}

	page.OpenEdit(*created)
	_, err = page.Update(ctx, created.ID, services.UpdateClientRequest{Email: strPtr("broken")})
	if !errors.Is(err, services.ErrClientValidation) {
		t.Fatalf("Update err = %v, want validation error", err)
	}
	state = page.State()
	if state.Modal.Mode != ModalEdit || state.FormNotice == nil || state.FormNotice.Kind != services.KindValidation {
		t.Fatalf("failed submit should keep modal and record a validation notice: %+v", state)
	}
	if state.Records[0].Email != "mia@example.com" {
		t.Errorf("failed submit changed the list")
	}

	if _, err := page.Update(ctx, created.ID, services.UpdateClientRequest{Phone: strPtr("555-0199")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	page.SetSearch("0199")
	state = page.State()
	if len(state.Filtered) != 1 || state.Filtered[0].ID != created.ID || len(state.Records) != 2 {
		t.Errorf("updated client should be replaced in place and searchable: %+v", state)
	}
}

func strPtr(s string) *string { return &s }

// blockingClients holds every call until release is closed.
type blockingClients struct {
	services.ClientService
	started chan struct{}
	release chan struct{}
}

func newBlockingClients() *blockingClients {
	return &blockingClients{started: make(chan struct{}, 4), release: make(chan struct{})}
}

func (b *blockingClients) GetClients(ctx context.Context) ([]models.Client, error) {
	b.started <- struct{}{}
	<-b.release
	return []models.Client{{ID: "late", FullName: "Late Result"}}, nil
}

func (b *blockingClients) CreateClient(ctx context.Context, req services.CreateClientRequest) (*models.Client, error) {
	b.started <- struct{}{}
	<-b.release
	return &models.Client{ID: "new", FullName: req.FullName}, nil
}

func TestSubmitRejectsConcurrentSubmit(t *testing.T) {
	ctx := context.Background()
	clients := newBlockingClients()
	page := NewClientsPage(ctx, clients)
	defer page.Close()

	done := make(chan error, 1)
	go func() {
		_, err := page.Create(ctx, services.CreateClientRequest{FullName: "First"})
		done <- err
	}()
	<-clients.started

	if _, err := page.Create(ctx, services.CreateClientRequest{FullName: "Second"}); !errors.Is(err, ErrSubmitInProgress) {
		t.Fatalf("second submit err = %v, want ErrSubmitInProgress", err)
	}
	if !page.State().Submitting {
		t.Error("state should report submitting")
	}
	close(clients.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if got := page.State().Records; len(got) != 1 || got[0].FullName != "First" {
		t.Errorf("records = %+v", got)
	}
}

func TestLateResultsIgnoredAfterClose(t *testing.T) {
	clients := newBlockingClients()
	page := NewClientsPage(context.Background(), clients)

	done := make(chan error, 1)
	go func() { done <- page.Load(context.Background()) }()
	<-clients.started
	page.Close()
	close(clients.release)

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Fatalf("Load err = %v, want ErrClosed", err)
	}
	if got := page.State().Records; len(got) != 0 {
		t.Errorf("late result was applied: %+v", got)
	}
	if _, err := page.Create(context.Background(), services.CreateClientRequest{}); !errors.Is(err, ErrClosed) {
		t.Errorf("submit after close err = %v", err)
	}
}

func TestBookingsPageLoadKeepsPartialResults(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	client := f.store.SeedClient(models.Client{FullName: "Mia Chen", Email: "mia@example.com"})
	f.store.SeedBooking(models.Booking{ClientID: client.ID, ServiceName: "Yoga", Status: models.BookingStatusConfirmed, Participants: 1})
	f.store.SeedBooking(models.Booking{ClientID: client.ID, ServiceName: "Court", Status: models.BookingStatusPending, Participants: 1})
	f.store.Fail(memstore.EntityServices, repositories.ErrDatabaseError)

	page := NewBookingsPage(ctx, f.bookings, f.clients, f.catalog)
	defer page.Close()
	err := page.Load(ctx, models.BookingFilters{})
	if !errors.Is(err, repositories.ErrDatabaseError) {
		t.Fatalf("Load err = %v, want the services failure", err)
	}
	state := page.State()
	if state.Loading {
		t.Error("loading should be false once every call settled")
	}
	if len(state.Records) != 2 || len(page.Options().Clients) != 1 {
		t.Errorf("successful calls should still be applied: %d bookings, %d clients", len(state.Records), len(page.Options().Clients))
	}
	if len(state.Notices) != 1 || state.Notices[0].Kind != services.KindTransient {
		t.Errorf("notices = %+v, want one transient notice", state.Notices)
	}

	page.SetStatus("confirmed")
	page.SetSearch("MIA")
	if got := page.State().Filtered; len(got) != 1 || got[0].ServiceName != "Yoga" {
		t.Errorf("filtered = %+v", got)
	}
}

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f := newFixture()
	client := f.store.SeedClient(models.Client{FullName: "Mia Chen", Email: "mia@example.com", CreatedAt: now.AddDate(0, 0, -3)})
	f.store.SeedClient(models.Client{FullName: "Old Timer", Email: "old@example.com", CreatedAt: now.AddDate(-1, 0, 0)})
	for i := 0; i < 6; i++ {
		f.store.SeedBooking(models.Booking{
			ClientID: client.ID, ServiceName: "Court", Status: models.BookingStatusConfirmed, Participants: 1,
			StartTime: time.Date(2024, 6, 1+i, 10, 0, 0, 0, time.UTC), TotalAmount: amount(20),
		})
	}
	f.store.SeedBooking(models.Booking{
		ClientID: client.ID, ServiceName: "Court", Status: models.BookingStatusConfirmed, Participants: 1,
		StartTime: time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC), TotalAmount: amount(500),
	})
	for _, status := range []models.InvoiceStatus{models.InvoiceStatusUnpaid, models.InvoiceStatusOverdue, models.InvoiceStatusOverdue, models.InvoiceStatusPaid} {
		f.store.SeedInvoice(models.Invoice{ClientID: client.ID, Amount: 10, TotalAmount: 10, Status: status})
	}

	page := NewDashboardPage(ctx, f.clients, f.bookings, f.invoices, func() time.Time { return now })
	defer page.Close()
	if err := page.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := page.State().Summary
	if s.TotalBookings != 6 || s.TotalRevenue != 120 || s.AverageBookingValue != 20 {
		t.Errorf("booking stats = %+v", s.BookingStats)
	}
	if s.TotalClients != 2 || s.NewClientsThisMonth != 1 {
		t.Errorf("client stats = %+v", s.ClientStats)
	}
	if s.UnpaidInvoices != 1 || s.OverdueInvoices != 2 {
		t.Errorf("unpaid=%d overdue=%d", s.UnpaidInvoices, s.OverdueInvoices)
	}
	if len(s.RecentBookings) != RecentLimit || len(s.RecentInvoices) != 4 {
		t.Errorf("recent bookings=%d invoices=%d", len(s.RecentBookings), len(s.RecentInvoices))
	}
	if !s.RecentBookings[0].StartTime.Equal(time.Date(2024, 6, 6, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("most recent booking first, got %v", s.RecentBookings[0].StartTime)
	}
}

func TestReportsGrowth(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)
	f := newFixture()
	client := f.store.SeedClient(models.Client{FullName: "Mia Chen", Email: "mia@example.com", CreatedAt: now.AddDate(0, -2, 0)})
	seed := func(day time.Time, total float64) {
		f.store.SeedBooking(models.Booking{ClientID: client.ID, ServiceName: "Court", Status: models.BookingStatusCompleted, Participants: 1, StartTime: day, TotalAmount: amount(total)})
	}
	seed(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), 100)
	seed(time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC), 50)
	seed(time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC), 100)

	start, end, err := ParseReportRange(models.ReportRequestParams{}, now)
	if err != nil {
		t.Fatalf("ParseReportRange: %v", err)
	}
	page := NewReportsPage(ctx, f.clients, f.bookings, f.invoices, func() time.Time { return now })
	defer page.Close()
	if err := page.Load(ctx, start, end); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := page.State().Summary
	if s.MonthlyRevenue != 150 || s.PreviousBooking.TotalRevenue != 100 {
		t.Errorf("revenue current=%v previous=%v", s.MonthlyRevenue, s.PreviousBooking.TotalRevenue)
	}
	if s.RevenueGrowth != 50 || s.BookingGrowth != 100 || s.ClientGrowth != 0 {
		t.Errorf("growth revenue=%v bookings=%v clients=%v", s.RevenueGrowth, s.BookingGrowth, s.ClientGrowth)
	}
	if len(s.RecentBookings) != 2 {
		t.Errorf("recent bookings = %d, want 2", len(s.RecentBookings))
	}
}

func TestParseReportRange(t *testing.T) {
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)
	start, end, err := ParseReportRange(models.ReportRequestParams{StartDate: "2024-01-01", EndDate: "2024-01-31"}, now)
	if err != nil {
		t.Fatalf("ParseReportRange: %v", err)
	}
	if !start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || end.Before(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)) {
		t.Errorf("range = %v .. %v", start, end)
	}
	if _, _, err := ParseReportRange(models.ReportRequestParams{StartDate: "2024-02-01", EndDate: "2024-01-01"}, now); services.KindOf(err) != services.KindValidation {
		t.Errorf("reversed range err = %v", err)
	}
	if _, _, err := ParseReportRange(models.ReportRequestParams{StartDate: "01/02/2024"}, now); !errors.Is(err, services.ErrDateFormat) {
		t.Errorf("bad format err = %v", err)
	}
}

func TestPortalWithoutClientLink(t *testing.T) {
	f := newFixture()
	f.store.Fail(memstore.EntityBookings, fmt.Errorf("must not be called"))
	page := NewPortalPage(context.Background(), f.clients, f.bookings, f.invoices)
	defer page.Close()
	if err := page.Load(context.Background(), models.UserProfile{ID: "u1", Role: models.RoleClient}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	view := page.State().View
	if view.Client != nil || len(view.Bookings) != 0 || len(view.Invoices) != 0 || view.Bookings == nil {
		t.Errorf("expected empty non-nil lists, got %+v", view)
	}
}

func TestPortalShowsOwnRecordsOnly(t *testing.T) {
	f := newFixture()
	mia := f.store.SeedClient(models.Client{FullName: "Mia Chen", Email: "mia@example.com"})
	leo := f.store.SeedClient(models.Client{FullName: "Leo Park", Email: "leo@example.com"})
	f.store.SeedBooking(models.Booking{ClientID: mia.ID, ServiceName: "Court", Status: models.BookingStatusPending, Participants: 1})
	f.store.SeedBooking(models.Booking{ClientID: leo.ID, ServiceName: "Court", Status: models.BookingStatusPending, Participants: 1})
	f.store.SeedInvoice(models.Invoice{ClientID: leo.ID, Amount: 5, TotalAmount: 5, Status: models.InvoiceStatusUnpaid})

	page := NewPortalPage(context.Background(), f.clients, f.bookings, f.invoices)
	defer page.Close()
	if err := page.Load(context.Background(), models.UserProfile{ID: "u1", Role: models.RoleClient, ClientID: &mia.ID}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	view := page.State().View
	if view.Client == nil || view.Client.ID != mia.ID || len(view.Bookings) != 1 || len(view.Invoices) != 0 {
		t.Errorf("portal view = %+v", view)
	}
}

func TestInvoiceDraftTotals(t *testing.T) {
	booking := models.Booking{ID: "b1", ClientID: "c1", TotalAmount: amount(120)}
	draft := DraftFromBooking(booking)
	if draft.ClientID != "c1" || draft.BookingID != "b1" || draft.Amount != 120 || draft.TotalAmount != 120 {
		t.Fatalf("draft = %+v", draft)
	}
	for _, tc := range []struct{ amount, tax float64 }{{120, 9.6}, {0.1, 0.2}, {19.99, 1.655}, {0, 0}} {
		d := draft.WithAmounts(tc.amount, tc.tax)
		if d.TotalAmount != models.RoundCents(tc.amount+tc.tax) {
			t.Errorf("WithAmounts(%v, %v) total = %v", tc.amount, tc.tax, d.TotalAmount)
		}
	}
	if d := draft.WithAmounts(100, 8); d.TotalAmount != 108 || d.BookingID != "b1" || d.Status != "unpaid" {
		t.Errorf("draft with tax = %+v", d)
	}
}
