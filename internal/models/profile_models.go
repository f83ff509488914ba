package models

import "time"

// Role is the access level attached to a signed-in user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
)

// IsValidRole checks if the provided string is a known Role.
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleAdmin, RoleStaff, RoleClient:
		return true
	}
	return false
}

// UserProfile maps an authenticated identity to a role and, for client users,
// to their Client record.
type UserProfile struct {
	ID        string    `json:"id" db:"id"`
	ClientID  *string   `json:"client_id,omitempty" db:"client_id"`
	Role      Role      `json:"role" db:"role"`
	FullName  *string   `json:"full_name,omitempty" db:"full_name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NavItem is one entry of the signed-in navigation menu.
type NavItem struct {
	Name  string `json:"name"`
	Href  string `json:"href"`
	Roles []Role `json:"-"`
}

var navigation = []NavItem{
	{Name: "Dashboard", Href: "/crm", Roles: []Role{RoleAdmin, RoleStaff}},
	{Name: "Clients", Href: "/crm/clients", Roles: []Role{RoleAdmin, RoleStaff}},
	{Name: "Bookings", Href: "/crm/bookings", Roles: []Role{RoleAdmin, RoleStaff}},
	{Name: "Invoices", Href: "/crm/invoices", Roles: []Role{RoleAdmin}},
	{Name: "Reports", Href: "/crm/reports", Roles: []Role{RoleAdmin}},
	{Name: "My Bookings", Href: "/portal", Roles: []Role{RoleClient}},
	{Name: "My Invoices", Href: "/portal/invoices", Roles: []Role{RoleClient}},
}

// NavigationFor returns the menu entries visible to role, in display order.
func NavigationFor(role Role) []NavItem {
	items := []NavItem{}
	for _, item := range navigation {
		for _, r := range item.Roles {
			if r == role {
				items = append(items, item)
				break
			}
		}
	}
	return items
}
