package models

import (
	"math"
	"time"
)

// InvoiceStatus defines the type for invoice statuses
type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "unpaid"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusUnpaid:    {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue:   {InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:      nil,
	InvoiceStatusCancelled: nil,
}

// IsValidInvoiceStatus checks if the provided status string is a valid InvoiceStatus.
func IsValidInvoiceStatus(status string) bool {
	_, ok := invoiceTransitions[InvoiceStatus(status)]
	return ok
}

// CanTransitionTo reports whether an invoice may move from s to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	if s == next {
		return IsValidInvoiceStatus(string(s))
	}
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Invoice is a billing record for a client, optionally tied to a booking.
type Invoice struct {
	ID            string        `json:"id" db:"id"`
	ClientID      string        `json:"client_id" db:"client_id"`
	BookingID     *string       `json:"booking_id,omitempty" db:"booking_id"`
	InvoiceNumber string        `json:"invoice_number" db:"invoice_number"` // assigned by the database
	Amount        float64       `json:"amount" db:"amount"`
	TaxAmount     float64       `json:"tax_amount" db:"tax_amount"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Status        InvoiceStatus `json:"status" db:"status"`
	IssuedAt      time.Time     `json:"issued_at" db:"issued_at"`
	DueDate       *time.Time    `json:"due_date,omitempty" db:"due_date"`
	PaidAt        *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	PaymentMethod *string       `json:"payment_method,omitempty" db:"payment_method"`
	Notes         *string       `json:"notes,omitempty" db:"notes"`
	CreatedBy     *string       `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
	Client        *Client       `json:"client,omitempty"`  // joined on reads
	Booking       *Booking      `json:"booking,omitempty"` // joined on reads
}

// ClientName returns the joined client's name, or "" when the join is missing.
func (i Invoice) ClientName() string {
	if i.Client == nil {
		return ""
	}
	return i.Client.FullName
}

// InvoiceTotal is amount plus tax rounded to cents.
func InvoiceTotal(amount, tax float64) float64 {
	return RoundCents(amount + tax)
}

// RoundCents rounds a currency value to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// InvoiceFilters defines the available filters for querying invoices.
type InvoiceFilters struct {
	ClientID *string
	Status   *InvoiceStatus
}
