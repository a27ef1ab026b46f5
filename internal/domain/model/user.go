package model

import (
	"time"

	"github.com/google/uuid"
)

// Role restricts what a principal may do in the marketplace.
type Role string

const (
	RoleGrower     Role = "GROWER"
	RoleDispensary Role = "DISPENSARY"
	RoleAdmin      Role = "ADMIN"
)

// ValidRole reports whether the role is one of the known values.
func ValidRole(r Role) bool {
	switch r {
	case RoleGrower, RoleDispensary, RoleAdmin:
		return true
	}
	return false
}

// User is a registered marketplace account tied to exactly one store.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	StoreID      uuid.UUID
	CreatedAt    time.Time
}

// Principal is the typed identity resolved once at the HTTP boundary and
// passed explicitly into every core operation.
type Principal struct {
	UserID  uuid.UUID
	Role    Role
	StoreID uuid.UUID
}

// CanManageOrders reports whether the principal may run seller-side
// lifecycle operations.
func (p Principal) CanManageOrders() bool {
	return p.Role == RoleGrower || p.Role == RoleAdmin
}

// CanCheckout reports whether the principal may place buyer orders.
func (p Principal) CanCheckout() bool {
	return p.Role == RoleDispensary || p.Role == RoleAdmin
}

// Owns reports whether the principal acts on behalf of the given store.
// Admins act on behalf of any store.
func (p Principal) Owns(storeID uuid.UUID) bool {
	return p.Role == RoleAdmin || p.StoreID == storeID
}
