package entity

import "github.com/google/uuid"

type Role string

const (
	RoleUser       Role = "user"
	RoleProvider   Role = "provider"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// AdminTierRoles may sign in to the admin surface.
var AdminTierRoles = []Role{RoleModerator, RoleAdmin, RoleSuperAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleProvider, RoleModerator, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func (r Role) IsAdminTier() bool {
	return r == RoleModerator || r == RoleAdmin || r == RoleSuperAdmin
}

// Actor is the principal behind a request.
type Actor struct {
	ID   uuid.UUID
	Role Role
}
