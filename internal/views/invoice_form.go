package views

import (
	"facility_crm_backend/internal/models"
	"facility_crm_backend/pkg/utils"
)

// InvoiceDraft is the invoice form before it is submitted.
type InvoiceDraft struct {
	ClientID      string  `json:"client_id"`
	BookingID     string  `json:"booking_id,omitempty"`
	Amount        float64 `json:"amount"`
	TaxAmount     float64 `json:"tax_amount"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
	DueDate       string  `json:"due_date,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// DraftFromBooking seeds a draft with the booking's client, id and amount.
func DraftFromBooking(b models.Booking) InvoiceDraft {
	amount := utils.FloatValue(b.TotalAmount)
	return InvoiceDraft{
		ClientID:    b.ClientID,
		BookingID:   b.ID,
		Amount:      amount,
		TotalAmount: models.InvoiceTotal(amount, 0),
		Status:      string(models.InvoiceStatusUnpaid),
	}
}

// WithAmounts sets amount and tax and recomputes the total.
func (d InvoiceDraft) WithAmounts(amount, tax float64) InvoiceDraft {
	d.Amount = amount
	d.TaxAmount = tax
	d.TotalAmount = models.InvoiceTotal(amount, tax)
	return d
}
