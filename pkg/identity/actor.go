package identity

import (
	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
)

// Role is the caller's role as asserted by the upstream identity provider.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Actor is the explicit identity value passed into every service
// operation. Services never reach into request context for identity.
type Actor struct {
	Role       Role
	UserID     *uuid.UUID
	GuestToken string
}

// Guest builds an anonymous actor keyed by a client-held token.
func Guest(token string) Actor {
	return Actor{Role: RoleGuest, GuestToken: token}
}

// User builds a registered-customer actor.
func User(id uuid.UUID) Actor {
	return Actor{Role: RoleUser, UserID: &id}
}

// Admin builds an operator actor.
func Admin(id uuid.UUID) Actor {
	return Actor{Role: RoleAdmin, UserID: &id}
}

// IsAdmin reports whether the actor may use operator endpoints.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsRegistered reports whether the actor is a known customer.
func (a Actor) IsRegistered() bool {
	return a.Role == RoleUser && a.UserID != nil
}

// IsAnonymous reports whether the actor is a guest shopper.
func (a Actor) IsAnonymous() bool {
	return a.Role == RoleGuest
}

// Owns reports whether the actor may read or mutate the given order.
// Admins own everything; users own their orders; guests own carts carrying
// their token.
func (a Actor) Owns(order *models.Order) bool {
	if order == nil {
		return false
	}
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		return a.UserID != nil && order.UserID != nil && *a.UserID == *order.UserID
	case RoleGuest:
		return a.GuestToken != "" && order.GuestToken != nil && *order.GuestToken == a.GuestToken
	default:
		return false
	}
}
