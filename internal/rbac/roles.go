package rbac

import "strings"

// Audience role tags. Keep these stable; they are part of the notification
// targeting and navigation-gating contracts with the remote API.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

func IsValid(role string) bool {
	switch role {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleFromPath maps a route path to the audience whose notifications that
// view shows. The prefixes mirror the SPA routing structure and break if it
// changes; prefer passing the role explicitly where the caller knows it.
func RoleFromPath(path string) string {
	switch {
	case strings.HasPrefix(path, "/admin/"):
		return RoleAdmin
	case strings.HasPrefix(path, "/seller"):
		return RoleSeller
	default:
		return RoleCustomer
	}
}
