package models

import "time"

// FullDayHours is what a "full-day" booking duration is billed as.
const FullDayHours = 8

// Service is a bookable offering. Only one of the three prices is expected to be
// set, but nothing enforces that; Quote picks them in a fixed order.
type Service struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     *string   `json:"description,omitempty" db:"description"`
	PricePerHour    *float64  `json:"price_per_hour,omitempty" db:"price_per_hour"`
	PricePerSession *float64  `json:"price_per_session,omitempty" db:"price_per_session"`
	PricePerMonth   *float64  `json:"price_per_month,omitempty" db:"price_per_month"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Quote returns the amount charged for a booking of the given length.
func (s Service) Quote(hours int) float64 {
	switch {
	case s.PricePerHour != nil:
		return *s.PricePerHour * float64(hours)
	case s.PricePerSession != nil:
		return *s.PricePerSession
	case s.PricePerMonth != nil:
		return *s.PricePerMonth
	}
	return 0
}
