package service

import (
	"strconv"

	"homeserv/internal/models"
)

// Role identifies which side of the marketplace an actor acts from.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleRenter   Role = "renter"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
)

// Actor is the already-authenticated caller of a core operation.
// ViaAdminSecret marks admins authenticated by the shared secret rather than
// per-user credentials; they have no user id of their own.
type Actor struct {
	ID             int64
	Role           Role
	ViaAdminSecret bool
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.ViaAdminSecret
}

// HistoryIdentity is the string recorded in rental history entries.
func (a Actor) HistoryIdentity() string {
	if a.ViaAdminSecret {
		return models.ActorAdminSecret
	}
	return strconv.FormatInt(a.ID, 10)
}
