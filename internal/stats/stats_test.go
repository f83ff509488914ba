package stats

import (
	"testing"
	"time"

	"facility_crm_backend/internal/models"
)

func amount(v float64) *float64 { return &v }

var (
	windowStart = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
)

func TestBookingStatsTwoBookings(t *testing.T) {
	bookings := []models.Booking{
		{StartTime: time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC), Status: models.BookingStatusConfirmed, TotalAmount: amount(100)},
		{StartTime: time.Date(2024, 6, 9, 10, 0, 0, 0, time.UTC), Status: models.BookingStatusPending, TotalAmount: amount(50)},
	}
	got := BookingStats(bookings, windowStart, windowEnd)
	want := models.BookingStats{TotalBookings: 2, ConfirmedBookings: 1, TotalRevenue: 150, AverageBookingValue: 75}
	if got != want {
		t.Fatalf("BookingStats = %+v, want %+v", got, want)
	}
}

func TestBookingStatsWindowAndNilAmounts(t *testing.T) {
	bookings := []models.Booking{
		{StartTime: windowStart, Status: models.BookingStatusConfirmed},
		{StartTime: windowEnd, Status: models.BookingStatusCompleted, TotalAmount: amount(30)},
		{StartTime: windowStart.Add(-time.Second), TotalAmount: amount(999)},
		{StartTime: windowEnd.Add(time.Second), TotalAmount: amount(999)},
	}
	got := BookingStats(bookings, windowStart, windowEnd)
	if got.TotalBookings != 2 {
		t.Errorf("TotalBookings = %d, want inclusive bounds to count 2", got.TotalBookings)
	}
	if got.TotalRevenue != 30 || got.AverageBookingValue != 15 {
		t.Errorf("revenue = %.2f avg = %.2f, want 30/15", got.TotalRevenue, got.AverageBookingValue)
	}
}

func TestBookingStatsEmpty(t *testing.T) {
	got := BookingStats(nil, windowStart, windowEnd)
	if got != (models.BookingStats{}) {
		t.Fatalf("BookingStats(nil) = %+v, want zero value", got)
	}
}

func TestClientStats(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	clients := []models.Client{
		{CreatedAt: now.Add(-24 * time.Hour)},
		{CreatedAt: now.Add(-NewClientWindow)},
		{CreatedAt: now.Add(-NewClientWindow - time.Minute)},
		{CreatedAt: now.AddDate(-1, 0, 0)},
	}
	got := ClientStats(clients, now)
	if got.TotalClients != 4 || got.NewClientsThisMonth != 2 {
		t.Fatalf("ClientStats = %+v, want total 4 new 2", got)
	}
	if got.NewClientsThisMonth > got.TotalClients {
		t.Fatal("new clients cannot exceed total")
	}
}

func TestInvoiceCounts(t *testing.T) {
	invoices := []models.Invoice{
		{Status: models.InvoiceStatusUnpaid, TotalAmount: 10.10},
		{Status: models.InvoiceStatusOverdue, TotalAmount: 20.20},
		{Status: models.InvoiceStatusOverdue, TotalAmount: 5},
		{Status: models.InvoiceStatusPaid, TotalAmount: 100},
		{Status: models.InvoiceStatusCancelled, TotalAmount: 7},
	}
	got := InvoiceCounts(invoices)
	want := models.InvoiceCounts{Unpaid: 1, Overdue: 2, Paid: 1, Cancelled: 1, OutstandingAmount: 35.30}
	if got != want {
		t.Fatalf("InvoiceCounts = %+v, want %+v", got, want)
	}
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		current, previous, want float64
	}{
		{150, 100, 50},
		{50, 100, -50},
		{100, 0, 0},
		{1, 3, -66.7},
	}
	for _, tt := range tests {
		if got := Growth(tt.current, tt.previous); got != tt.want {
			t.Errorf("Growth(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestMonthWindowAndPreviousPeriod(t *testing.T) {
	start, end := MonthWindow(time.Date(2024, 3, 17, 15, 4, 5, 0, time.UTC))
	if !start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)) {
		t.Errorf("end = %v", end)
	}
	prevStart, prevEnd := PreviousPeriod(start, start.AddDate(0, 0, 14))
	if !prevStart.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) || !prevEnd.Equal(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("previous = %v .. %v", prevStart, prevEnd)
	}
}

func TestPreviousPeriodClampsToShorterMonth(t *testing.T) {
	start, end := MonthWindow(time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC))
	prevStart, prevEnd := PreviousPeriod(start, end)
	if !prevStart.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("prevStart = %v", prevStart)
	}
	wantEnd := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	if !prevEnd.Equal(wantEnd) {
		t.Errorf("prevEnd = %v, want %v", prevEnd, wantEnd)
	}
	if !prevEnd.Before(start) {
		t.Errorf("previous window %v .. %v overlaps current window starting %v", prevStart, prevEnd, start)
	}

	tests := []struct {
		in, want time.Time
	}{
		{time.Date(2023, 3, 31, 18, 0, 0, 0, time.UTC), time.Date(2023, 2, 28, 18, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC), time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)},
		{time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, _ := PreviousPeriod(tt.in, tt.in)
		if !got.Equal(tt.want) {
			t.Errorf("PreviousPeriod(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
