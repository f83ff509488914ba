package views

import (
	"context"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
)

// PortalState is a snapshot of the client portal.
type PortalState struct {
	View    models.PortalView `json:"view"`
	Loading bool              `json:"loading"`
	Notices []Notice          `json:"notices,omitempty"`
}

// PortalPage shows a client-role user their own record, bookings and invoices.
type PortalPage struct {
	page
	clients  services.ClientService
	bookings services.BookingService
	invoices services.InvoiceService
	view     models.PortalView
}

func NewPortalPage(ctx context.Context, clients services.ClientService, bookings services.BookingService, invoices services.InvoiceService) *PortalPage {
	p := &PortalPage{clients: clients, bookings: bookings, invoices: invoices}
	p.page.init(ctx)
	return p
}

// Load fetches the data owned by profile's client. A profile without a
// client link gets empty lists and no calls are made.
func (p *PortalPage) Load(ctx context.Context, profile models.UserProfile) error {
	p.mu.Lock()
	p.view = models.PortalView{Profile: profile, Bookings: []models.Booking{}, Invoices: []models.Invoice{}}
	p.mu.Unlock()
	if profile.ClientID == nil || *profile.ClientID == "" {
		return nil
	}
	clientID := *profile.ClientID
	return p.load(ctx, nil,
		func(ctx context.Context) (func(), error) {
			client, err := p.clients.GetClientByID(ctx, clientID)
			if err != nil {
				return nil, err
			}
			return func() { p.view.Client = client }, nil
		},
		func(ctx context.Context) (func(), error) {
			bookings, err := p.bookings.GetBookings(ctx, models.BookingFilters{ClientID: &clientID})
			if err != nil {
				return nil, err
			}
			return func() { p.view.Bookings = bookings }, nil
		},
		func(ctx context.Context) (func(), error) {
			invoices, err := p.invoices.GetInvoices(ctx, models.InvoiceFilters{ClientID: &clientID})
			if err != nil {
				return nil, err
			}
			return func() { p.view.Invoices = invoices }, nil
		},
	)
}

func (p *PortalPage) State() PortalState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PortalState{View: p.view, Loading: p.loading, Notices: p.snapshotNotices()}
}
