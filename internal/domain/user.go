package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// User is a login account. Customer accounts are linked to exactly one
// Customer row; admin accounts have no customer record.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Identity is the resolved caller of an operation.
type Identity struct {
	Username string
	Role     string
}

// IsAdmin reports whether the caller holds the privileged role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
