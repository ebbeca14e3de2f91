package models

import "time"

type Role string

const (
	RoleManager Role = "Manager"
	RoleWaiter  Role = "Waiter"
	RoleChef    Role = "Chef"
	RoleCashier Role = "Cashier"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleWaiter, RoleChef, RoleCashier:
		return true
	}
	return false
}

// Restricted roles may only reach allow-listed routes.
func (r Role) Restricted() bool { return r == RoleWaiter }

type Staff struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Role          Role      `gorm:"size:50;not null" json:"role"`
	ContactNumber *string   `gorm:"size:20" json:"contact_number"`
	Username      string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash  string    `gorm:"not null" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }

// Identity is the authenticated caller as resolved by the gateway.
type Identity struct {
	StaffID uint
	Role    Role
}

func (i Identity) IsManager() bool { return i.Role == RoleManager }
