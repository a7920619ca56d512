// Package policy decides which roles may mutate which directory resources.
// Usecases consult it before touching a repository, so every caller is gated.
package policy

import (
	"support-directory/internal/data/entity"
)

type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionSetStatus Action = "set_status"
)

type Resource string

const (
	ResourceService   Resource = "service"
	ResourceProvider  Resource = "provider"
	ResourceCategory  Resource = "category"
	ResourceAdminUser Resource = "admin_user"
)

type actionSet map[Action]bool

var all = actionSet{
	ActionCreate:    true,
	ActionUpdate:    true,
	ActionDelete:    true,
	ActionSetStatus: true,
}

var rules = map[entity.Role]map[Resource]actionSet{
	entity.RoleModerator: {
		ResourceService:  {ActionUpdate: true, ActionSetStatus: true},
		ResourceProvider: {ActionUpdate: true, ActionSetStatus: true},
	},
	entity.RoleAdmin: {
		ResourceService:   all,
		ResourceProvider:  all,
		ResourceCategory:  all,
		ResourceAdminUser: all,
	},
	entity.RoleSuperAdmin: {
		ResourceService:   all,
		ResourceProvider:  all,
		ResourceCategory:  all,
		ResourceAdminUser: all,
	},
}

// Allowed reports whether role may perform action on resource. Roles outside
// the table are denied everything.
func Allowed(role entity.Role, action Action, resource Resource) bool {
	return rules[role][resource][action]
}

// AllowedServiceStatus reports whether role may move a service into status.
// Moderators cannot send a service back to draft.
func AllowedServiceStatus(role entity.Role, status entity.ServiceStatus) bool {
	if !Allowed(role, ActionSetStatus, ResourceService) {
		return false
	}
	return role != entity.RoleModerator || status != entity.ServiceDraft
}

// CanAssignRole reports whether role may grant target to an account.
// Admin-tier roles are granted by super admins only.
func CanAssignRole(role, target entity.Role) bool {
	return CanManageAccount(role, target)
}

// CanManageAccount reports whether role may edit or delete an account that
// currently holds target. Accounts in the admin tier are managed by super
// admins only.
func CanManageAccount(role, target entity.Role) bool {
	if !Allowed(role, ActionUpdate, ResourceAdminUser) {
		return false
	}
	return !target.IsAdminTier() || role == entity.RoleSuperAdmin
}
