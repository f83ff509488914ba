package models

import "time"

// Client represents a customer of the facility
type Client struct {
	ID                    string    `json:"id" db:"id"`
	FullName              string    `json:"full_name" db:"full_name"`
	Email                 string    `json:"email" db:"email"`
	Phone                 *string   `json:"phone,omitempty" db:"phone"`
	Address               *string   `json:"address,omitempty" db:"address"`
	DateOfBirth           *string   `json:"date_of_birth,omitempty" db:"date_of_birth"` // YYYY-MM-DD
	EmergencyContactName  *string   `json:"emergency_contact_name,omitempty" db:"emergency_contact_name"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone,omitempty" db:"emergency_contact_phone"`
	Notes                 *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}
