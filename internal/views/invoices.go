package views

import (
	"context"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
)

// InvoiceSearchFields are the invoice fields the search box matches.
func InvoiceSearchFields(inv models.Invoice) []string {
	return []string{inv.InvoiceNumber, inv.ClientName()}
}

// InvoiceStatusOf is the value the status filter compares against.
func InvoiceStatusOf(inv models.Invoice) string { return string(inv.Status) }

func invoiceID(inv models.Invoice) string { return inv.ID }

// InvoiceOptions feed the invoice form's client and booking pickers.
type InvoiceOptions struct {
	Clients  []models.Client  `json:"clients"`
	Bookings []models.Booking `json:"bookings"`
}

// InvoicesPage backs the invoices list.
type InvoicesPage struct {
	listPage[models.Invoice]
	invoices services.InvoiceService
	clients  services.ClientService
	bookings services.BookingService
	options  InvoiceOptions
}

func NewInvoicesPage(ctx context.Context, invoices services.InvoiceService, clients services.ClientService, bookings services.BookingService) *InvoicesPage {
	p := &InvoicesPage{
		invoices: invoices,
		clients:  clients,
		bookings: bookings,
	}
	p.init(ctx, InvoiceSearchFields, InvoiceStatusOf, invoiceID)
	return p
}

func (p *InvoicesPage) Load(ctx context.Context, filters models.InvoiceFilters) error {
	return p.load(ctx, p.refilter,
		func(ctx context.Context) (func(), error) {
			invoices, err := p.invoices.GetInvoices(ctx, filters)
			if err != nil {
				return nil, err
			}
			return p.setRecords(invoices), nil
		},
		func(ctx context.Context) (func(), error) {
			clients, err := p.clients.GetClients(ctx)
			if err != nil {
				return nil, err
			}
			return func() { p.options.Clients = clients }, nil
		},
		func(ctx context.Context) (func(), error) {
			bookings, err := p.bookings.GetBookings(ctx, models.BookingFilters{})
			if err != nil {
				return nil, err
			}
			return func() { p.options.Bookings = bookings }, nil
		},
	)
}

func (p *InvoicesPage) Options() InvoiceOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.options
}

func (p *InvoicesPage) Create(ctx context.Context, req services.CreateInvoiceRequest) (*models.Invoice, error) {
	return p.submit(ctx, true, func(ctx context.Context) (*models.Invoice, error) {
		return p.invoices.CreateInvoice(ctx, req)
	})
}

func (p *InvoicesPage) Update(ctx context.Context, id string, req services.UpdateInvoiceRequest) (*models.Invoice, error) {
	return p.submit(ctx, false, func(ctx context.Context) (*models.Invoice, error) {
		return p.invoices.UpdateInvoice(ctx, id, req)
	})
}
