// Package stats holds the pure reducers behind the dashboard and reports
// pages. Every function takes "now" or the window explicitly.
package stats

import (
	"math"
	"time"

	"facility_crm_backend/internal/models"
)

// NewClientWindow is how far back a client counts as new.
const NewClientWindow = 30 * 24 * time.Hour

// BookingStats summarises bookings whose start_time lies in [start, end].
func BookingStats(bookings []models.Booking, start, end time.Time) models.BookingStats {
	var s models.BookingStats
	for _, b := range bookings {
		if b.StartTime.Before(start) || b.StartTime.After(end) {
			continue
		}
		s.TotalBookings++
		if b.Status == models.BookingStatusConfirmed {
			s.ConfirmedBookings++
		}
		if b.TotalAmount != nil {
			s.TotalRevenue += *b.TotalAmount
		}
	}
	s.TotalRevenue = models.RoundCents(s.TotalRevenue)
	if s.TotalBookings > 0 {
		s.AverageBookingValue = models.RoundCents(s.TotalRevenue / float64(s.TotalBookings))
	}
	return s
}

// ClientStats counts all clients and those created within NewClientWindow of now.
func ClientStats(clients []models.Client, now time.Time) models.ClientStats {
	cutoff := now.Add(-NewClientWindow)
	s := models.ClientStats{TotalClients: len(clients)}
	for _, c := range clients {
		if !c.CreatedAt.Before(cutoff) {
			s.NewClientsThisMonth++
		}
	}
	return s
}

// InvoiceCounts tallies invoices per status. OutstandingAmount sums unpaid and
// overdue totals.
func InvoiceCounts(invoices []models.Invoice) models.InvoiceCounts {
	var c models.InvoiceCounts
	for _, inv := range invoices {
		switch inv.Status {
		case models.InvoiceStatusUnpaid:
			c.Unpaid++
			c.OutstandingAmount += inv.TotalAmount
		case models.InvoiceStatusOverdue:
			c.Overdue++
			c.OutstandingAmount += inv.TotalAmount
		case models.InvoiceStatusPaid:
			c.Paid++
		case models.InvoiceStatusCancelled:
			c.Cancelled++
		}
	}
	c.OutstandingAmount = models.RoundCents(c.OutstandingAmount)
	return c
}

// Growth is the percentage change from previous to current, rounded to one
// decimal. It is 0 when there is no previous value to compare with.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return math.Round((current-previous)/previous*1000) / 10
}

// MonthWindow returns the first and last instants of now's calendar month.
func MonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// PreviousPeriod shifts both ends of [start, end] back one calendar month.
// A day past the end of the earlier month clamps to its last day, and the
// last day of a month maps to the last day of the month before, so a whole
// month always compares against the whole previous month.
func PreviousPeriod(start, end time.Time) (time.Time, time.Time) {
	return monthBefore(start), monthBefore(end)
}

func monthBefore(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay || day == daysIn(t) {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
