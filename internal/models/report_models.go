package models

import "time"

// BookingStats summarizes the bookings that start inside a date window.
type BookingStats struct {
	TotalBookings       int     `json:"total_bookings"`
	ConfirmedBookings   int     `json:"confirmed_bookings"`
	TotalRevenue        float64 `json:"total_revenue"`
	AverageBookingValue float64 `json:"average_booking_value"`
}

// ClientStats summarizes the client base.
type ClientStats struct {
	TotalClients        int `json:"total_clients"`
	NewClientsThisMonth int `json:"new_clients_this_month"` // created within the trailing 30 days
}

// InvoiceCounts breaks an invoice list down by status.
type InvoiceCounts struct {
	Unpaid            int     `json:"unpaid_invoices"`
	Overdue           int     `json:"overdue_invoices"`
	Paid              int     `json:"paid_invoices"`
	Cancelled         int     `json:"cancelled_invoices"`
	OutstandingAmount float64 `json:"outstanding_amount"` // unpaid + overdue totals
}

// DashboardSummary holds key metrics for the CRM landing page.
type DashboardSummary struct {
	ClientStats
	BookingStats
	UnpaidInvoices  int       `json:"unpaid_invoices"`
	OverdueInvoices int       `json:"overdue_invoices"`
	RecentBookings  []Booking `json:"recent_bookings"`
	RecentInvoices  []Invoice `json:"recent_invoices"`
	WindowStart     time.Time `json:"window_start"`
	WindowEnd       time.Time `json:"window_end"`
}

// ReportSummary is the reports page: the selected window compared with the
// same window one month earlier.
type ReportSummary struct {
	ClientStats
	BookingStats
	InvoiceCounts
	MonthlyRevenue  float64      `json:"monthly_revenue"`
	RevenueGrowth   float64      `json:"revenue_growth"`
	BookingGrowth   float64      `json:"booking_growth"`
	ClientGrowth    float64      `json:"client_growth"`
	RecentBookings  []Booking    `json:"recent_bookings"`
	StartDate       time.Time    `json:"start_date"`
	EndDate         time.Time    `json:"end_date"`
	PreviousStart   time.Time    `json:"previous_start"`
	PreviousEnd     time.Time    `json:"previous_end"`
	PreviousBooking BookingStats `json:"previous_booking_stats"`
}

// ReportRequestParams holds common parameters for requesting reports.
type ReportRequestParams struct {
	StartDate string `form:"start"` // YYYY-MM-DD
	EndDate   string `form:"end"`   // YYYY-MM-DD
}

// PortalView is what a client-role user sees about themselves.
type PortalView struct {
	Profile  UserProfile `json:"profile"`
	Client   *Client     `json:"client,omitempty"`
	Bookings []Booking   `json:"bookings"`
	Invoices []Invoice   `json:"invoices"`
}
