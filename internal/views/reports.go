package views

import (
	"context"
	"fmt"
	"time"

	"facility_crm_backend/internal/models"
	"facility_crm_backend/internal/services"
	"facility_crm_backend/internal/stats"
)

// ReportRecentLimit is how many bookings of the window the report lists.
const ReportRecentLimit = 10

// ParseReportRange reads the start/end query dates (YYYY-MM-DD, both
// inclusive). Missing dates default to the current month's window.
func ParseReportRange(params models.ReportRequestParams, now time.Time) (time.Time, time.Time, error) {
	start, end := stats.MonthWindow(now)
	if params.StartDate != "" {
		d, err := time.ParseInLocation("2006-01-02", params.StartDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start: %v", services.ErrDateFormat, err)
		}
		start = d
	}
	if params.EndDate != "" {
		d, err := time.ParseInLocation("2006-01-02", params.EndDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end: %v", services.ErrDateFormat, err)
		}
		end = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end is before start", services.ErrInvalidDateRange)
	}
	return start, end, nil
}

// ReportsState is a snapshot of the reports page.
type ReportsState struct {
	Summary models.ReportSummary `json:"summary"`
	Loading bool                 `json:"loading"`
	Notices []Notice             `json:"notices,omitempty"`
}

// ReportsPage compares a date window with the same window one month earlier.
type ReportsPage struct {
	page
	clients  services.ClientService
	bookings services.BookingService
	invoices services.InvoiceService
	now      func() time.Time

	clientRows  []models.Client
	bookingRows []models.Booking
	invoiceRows []models.Invoice
	summary     models.ReportSummary
}

func NewReportsPage(ctx context.Context, clients services.ClientService, bookings services.BookingService, invoices services.InvoiceService, now func() time.Time) *ReportsPage {
	if now == nil {
		now = time.Now
	}
	p := &ReportsPage{clients: clients, bookings: bookings, invoices: invoices, now: now}
	p.page.init(ctx)
	return p
}

// Load fetches everything the [start, end] report and its comparison period need.
func (p *ReportsPage) Load(ctx context.Context, start, end time.Time) error {
	prevStart, prevEnd := stats.PreviousPeriod(start, end)
	from := prevStart
	if start.Before(from) {
		from = start
	}
	return p.load(ctx, func() { p.summarize(start, end, prevStart, prevEnd) },
		func(ctx context.Context) (func(), error) {
			clients, err := p.clients.GetClients(ctx)
			if err != nil {
				return nil, err
			}
			return func() { p.clientRows = clients }, nil
		},
		func(ctx context.Context) (func(), error) {
			bookings, err := p.bookings.GetBookings(ctx, models.BookingFilters{DateFrom: &from, DateTo: &end})
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

func countCreated(clients []models.Client, start, end time.Time) int {
	n := 0
	for _, c := range clients {
		if !c.CreatedAt.Before(start) && !c.CreatedAt.After(end) {
			n++
		}
	}
	return n
}

func bookingsWithin(bookings []models.Booking, start, end time.Time) []models.Booking {
	out := []models.Booking{}
	for _, b := range bookings {
		if !b.StartTime.Before(start) && !b.StartTime.After(end) {
			out = append(out, b)
		}
	}
	return out
}

func invoicesIssuedWithin(invoices []models.Invoice, start, end time.Time) []models.Invoice {
	out := []models.Invoice{}
	for _, inv := range invoices {
		if !inv.IssuedAt.Before(start) && !inv.IssuedAt.After(end) {
			out = append(out, inv)
		}
	}
	return out
}

// summarize must be called with the lock held.
func (p *ReportsPage) summarize(start, end, prevStart, prevEnd time.Time) {
	current := stats.BookingStats(p.bookingRows, start, end)
	previous := stats.BookingStats(p.bookingRows, prevStart, prevEnd)
	p.summary = models.ReportSummary{
		ClientStats:     stats.ClientStats(p.clientRows, p.now()),
		BookingStats:    current,
		InvoiceCounts:   stats.InvoiceCounts(invoicesIssuedWithin(p.invoiceRows, start, end)),
		MonthlyRevenue:  current.TotalRevenue,
		RevenueGrowth:   stats.Growth(current.TotalRevenue, previous.TotalRevenue),
		BookingGrowth:   stats.Growth(float64(current.TotalBookings), float64(previous.TotalBookings)),
		ClientGrowth:    stats.Growth(float64(countCreated(p.clientRows, start, end)), float64(countCreated(p.clientRows, prevStart, prevEnd))),
		RecentBookings:  head(bookingsWithin(p.bookingRows, start, end), ReportRecentLimit),
		StartDate:       start,
		EndDate:         end,
		PreviousStart:   prevStart,
		PreviousEnd:     prevEnd,
		PreviousBooking: previous,
	}
}

func (p *ReportsPage) State() ReportsState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ReportsState{Summary: p.summary, Loading: p.loading, Notices: p.snapshotNotices()}
}
