package auth

import "strings"

// RoleSystemAdmin is the platform-administrator role name.
const RoleSystemAdmin = "SYSTEM_ADMIN"

// privilegedSystemRoles are the SystemRole values that grant platform-wide
// administration. Matched case-insensitively.
var privilegedSystemRoles = []string{
	"SYSTEM_ADMIN",
	"PLATFORM_ADMIN",
	"SUPER_ADMIN",
}

// IsSystemAdmin reports whether the identity is a platform-wide
// administrator. Admins bypass farm membership checks entirely.
//
// The predicate is total: it never errors, and any ambiguity in the layered
// role encodings resolves to false. Layers are checked in strict precedence
// order, first match wins:
//
//  1. the explicit SystemAdmin flag
//  2. SystemRole equal to a privileged role name
//  3. the legacy scalar Role field equal to SYSTEM_ADMIN
//  4. the farm-role collection containing SYSTEM_ADMIN, in whichever
//     encoding the row carries
func IsSystemAdmin(id *Identity) bool {
	if id == nil {
		return false
	}
	if id.SystemAdmin {
		return true
	}
	for _, role := range privilegedSystemRoles {
		if strings.EqualFold(id.SystemRole, role) {
			return true
		}
	}
	if strings.EqualFold(strings.TrimSpace(id.Role), RoleSystemAdmin) {
		return true
	}
	return id.TenantRoles.Contains(RoleSystemAdmin)
}
