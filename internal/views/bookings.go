package views

import (
	"context"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
)

// BookingSearchFields are the booking fields the search box matches.
func BookingSearchFields(b models.Booking) []string {
	return []string{b.ClientName(), b.ServiceName}
}

// BookingStatusOf is the value the status filter compares against.
func BookingStatusOf(b models.Booking) string { return string(b.Status) }

func bookingID(b models.Booking) string { return b.ID }

// BookingOptions feed the booking form's client and service pickers.
type BookingOptions struct {
	Clients  []models.Client  `json:"clients"`
	Services []models.Service `json:"services"`
}

// BookingsPage backs the bookings list.
type BookingsPage struct {
	listPage[models.Booking]
	bookings services.BookingService
	clients  services.ClientService
	catalog  services.CatalogService
	options  BookingOptions
}

func NewBookingsPage(ctx context.Context, bookings services.BookingService, clients services.ClientService, catalog services.CatalogService) *BookingsPage {
	p := &BookingsPage{
		bookings: bookings,
		clients:  clients,
		catalog:  catalog,
	}
	p.init(ctx, BookingSearchFields, BookingStatusOf, bookingID)
	return p
}

// Load fetches bookings matching filters together with the form options.
func (p *BookingsPage) Load(ctx context.Context, filters models.BookingFilters) error {
	return p.load(ctx, p.refilter,
		func(ctx context.Context) (func(), error) {
			bookings, err := p.bookings.GetBookings(ctx, filters)
			if err != nil {
				return nil, err
			}
			return p.setRecords(bookings), nil
		},
		func(ctx context.Context) (func(), error) {
			clients, err := p.clients.GetClients(ctx)
			if err != nil {
				return nil, err
			}
			return func() { p.options.Clients = clients }, nil
		},
		func(ctx context.Context) (func(), error) {
			svcs, err := p.catalog.GetActiveServices(ctx)
			if err != nil {
				return nil, err
			}
			return func() { p.options.Services = svcs }, nil
		},
	)
}

// Options returns the loaded form options.
func (p *BookingsPage) Options() BookingOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.options
}

func (p *BookingsPage) Create(ctx context.Context, req services.CreateBookingRequest) (*models.Booking, error) {
	return p.submit(ctx, true, func(ctx context.Context) (*models.Booking, error) {
		return p.bookings.CreateBooking(ctx, req)
	})
}

func (p *BookingsPage) Update(ctx context.Context, id string, req services.UpdateBookingRequest) (*models.Booking, error) {
	return p.submit(ctx, false, func(ctx context.Context) (*models.Booking, error) {
		return p.bookings.UpdateBooking(ctx, id, req)
	})
}
