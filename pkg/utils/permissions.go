package utils

import "sort"

const (
	RoleSuperAdmin = "super-admin"
	RoleOwner      = "owner"
	RoleManager    = "manager"
	RoleStaff      = "staff"
)

const (
	PermDashboardRead = "dashboard:read"
	PermInvoicesRead  = "invoices:read"
	PermInvoicesWrite = "invoices:write"
	PermFeedbackRead  = "feedbacks:read"
	PermFeedbackWrite = "feedbacks:write"
	PermBookingsRead  = "bookings:read"
	PermBookingsWrite = "bookings:write"
	PermCatalogRead   = "catalog:read"
	PermCatalogWrite  = "catalog:write"
	PermClientsRead   = "clients:read"
	PermClientsWrite  = "clients:write"
	PermBranchesRead  = "branches:read"
	PermBranchesWrite = "branches:write"
)

var allPermissions = []string{
	PermDashboardRead,
	PermInvoicesRead, PermInvoicesWrite,
	PermFeedbackRead, PermFeedbackWrite,
	PermBookingsRead, PermBookingsWrite,
	PermCatalogRead, PermCatalogWrite,
	PermClientsRead, PermClientsWrite,
	PermBranchesRead, PermBranchesWrite,
}

var rolePermissions = map[string][]string{
	RoleSuperAdmin: allPermissions,
	RoleOwner:      allPermissions,
	RoleManager: {
		PermDashboardRead,
		PermInvoicesRead, PermInvoicesWrite,
		PermFeedbackRead, PermFeedbackWrite,
		PermBookingsRead, PermBookingsWrite,
		PermCatalogRead, PermCatalogWrite,
		PermClientsRead, PermClientsWrite,
		PermBranchesRead,
	},
	RoleStaff: {
		PermInvoicesRead, PermInvoicesWrite,
		PermFeedbackRead,
		PermBookingsRead, PermBookingsWrite,
		PermCatalogRead,
		PermClientsRead, PermClientsWrite,
		PermBranchesRead,
	},
}

// PermissionsForRoles returns the sorted union of the permissions granted
// to the roles. Unknown roles grant nothing.
func PermissionsForRoles(roles []string) []string {
	seen := make(map[string]struct{})
	for _, role := range roles {
		for _, perm := range rolePermissions[role] {
			seen[perm] = struct{}{}
		}
	}

	perms := make([]string, 0, len(seen))
	for perm := range seen {
		perms = append(perms, perm)
	}
	sort.Strings(perms)
	return perms
}
