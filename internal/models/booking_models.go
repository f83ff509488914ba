package models

import "time"

// BookingStatus defines the type for booking statuses
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: nil,
	BookingStatusCancelled: nil,
}

// IsValidBookingStatus checks if the provided status string is a valid BookingStatus.
func IsValidBookingStatus(status string) bool {
	_, ok := bookingTransitions[BookingStatus(status)]
	return ok
}

// CanTransitionTo reports whether a booking may move from s to next.
// Staying on the same status is always allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return IsValidBookingStatus(string(s))
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a scheduled engagement of a client with a service
type Booking struct {
	ID           string        `json:"id" db:"id"`
	ClientID     string        `json:"client_id" db:"client_id"`
	ServiceID    *string       `json:"service_id,omitempty" db:"service_id"`
	ServiceName  string        `json:"service_name" db:"service_name"`
	StartTime    time.Time     `json:"start_time" db:"start_time"`
	EndTime      time.Time     `json:"end_time" db:"end_time"`
	Status       BookingStatus `json:"status" db:"status"`
	Participants int           `json:"participants" db:"participants"`
	TotalAmount  *float64      `json:"total_amount,omitempty" db:"total_amount"`
	Notes        *string       `json:"notes,omitempty" db:"notes"`
	CreatedBy    *string       `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
	Client       *Client       `json:"client,omitempty"` // joined on reads
}

// ClientName returns the joined client's name, or "" when the join is missing.
func (b Booking) ClientName() string {
	if b.Client == nil {
		return ""
	}
	return b.Client.FullName
}

// BookingFilters defines the available filters for querying bookings.
type BookingFilters struct {
	ClientID  *string
	Status    *BookingStatus
	DateFrom  *time.Time // inclusive, on start_time
	DateTo    *time.Time // inclusive, on start_time
	Ascending bool       // order by start_time ascending instead of newest first
}
