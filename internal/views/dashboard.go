package views

import (
	"context"
	"time"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
	"facility_crm_backend/internal/stats"
)

// RecentLimit is how many bookings and invoices the dashboard lists.
const RecentLimit = 5

// DashboardState is a snapshot of the dashboard.
type DashboardState struct {
	Summary models.DashboardSummary `json:"summary"`
	Loading bool                    `json:"loading"`
	Notices []Notice                `json:"notices,omitempty"`
}

// DashboardPage computes the CRM landing page metrics for the current month.
type DashboardPage struct {
	page
	clients  services.ClientService
	bookings services.BookingService
	invoices services.InvoiceService
	now      func() time.Time

	clientRows  []models.Client
	bookingRows []models.Booking
	invoiceRows []models.Invoice
	summary     models.DashboardSummary
}

func NewDashboardPage(ctx context.Context, clients services.ClientService, bookings services.BookingService, invoices services.InvoiceService, now func() time.Time) *DashboardPage {
	if now == nil {
		now = time.Now
	}
	p := &DashboardPage{clients: clients, bookings: bookings, invoices: invoices, now: now}
	p.page.init(ctx)
	return p
}

func (p *DashboardPage) Load(ctx context.Context) error {
	return p.load(ctx, p.summarize,
		func(ctx context.Context) (func(), error) {
			clients, err := p.clients.GetClients(ctx)
			if err != nil {
				return nil, err
			}
			return func() { p.clientRows = clients }, nil
		},
		func(ctx context.Context) (func(), error) {
			bookings, err := p.bookings.GetBookings(ctx, models.BookingFilters{})
			if err != nil {
				return nil, err
			}
			return func() { p.bookingRows = bookings }, nil
		},
		func(ctx context.Context) (func(), error) {
			invoices, err := p.invoices.GetInvoices(ctx, models.InvoiceFilters{})
			if err != nil {
				return nil, err
			}
			return func() { p.invoiceRows = invoices }, nil
		},
	)
}

// summarize must be called with the lock held.
func (p *DashboardPage) summarize() {
	now := p.now()
	start, end := stats.MonthWindow(now)
	counts := stats.InvoiceCounts(p.invoiceRows)
	p.summary = models.DashboardSummary{
		ClientStats:     stats.ClientStats(p.clientRows, now),
		BookingStats:    stats.BookingStats(p.bookingRows, start, end),
		UnpaidInvoices:  counts.Unpaid,
		OverdueInvoices: counts.Overdue,
		RecentBookings:  head(p.bookingRows, RecentLimit),
		RecentInvoices:  head(p.invoiceRows, RecentLimit),
		WindowStart:     start,
		WindowEnd:       end,
	}
}

func (p *DashboardPage) State() DashboardState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return DashboardState{Summary: p.summary, Loading: p.loading, Notices: p.snapshotNotices()}
}

// head returns a copy of at most n leading items, never nil.
func head[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	return append([]T{}, items[:n]...)
}
