package auth

import "testing"

func TestIsSystemAdmin(t *testing.T) {
	tests := []struct {
		name string
		id   *Identity
		want bool
	}{
		{"nil identity", nil, false},
		{"plain user", &Identity{ID: "u1"}, false},
		{"explicit flag", &Identity{SystemAdmin: true}, true},
		// The flag wins regardless of contradictory fields.
		{
			"flag wins over everything",
			&Identity{SystemAdmin: true, SystemRole: "WORKER", Role: "WORKER", TenantRoles: RolesFromString("WORKER")},
			true,
		},
		{"system role exact", &Identity{SystemRole: "SYSTEM_ADMIN"}, true},
		{"system role case-insensitive", &Identity{SystemRole: "system_admin"}, true},
		{"system role platform admin", &Identity{SystemRole: "PLATFORM_ADMIN"}, true},
		{"system role super admin", &Identity{SystemRole: "Super_Admin"}, true},
		{"system role unprivileged", &Identity{SystemRole: "FARM_MANAGER"}, false},
		{"legacy scalar role", &Identity{Role: "SYSTEM_ADMIN"}, true},
		{"legacy scalar role lower", &Identity{Role: "system_admin"}, true},
		{"legacy scalar role padded", &Identity{Role: " SYSTEM_ADMIN "}, true},
		{"legacy scalar role other", &Identity{Role: "ADMIN_ASSISTANT"}, false},
		{"tenant roles list", &Identity{TenantRoles: RolesFromList([]string{"WORKER", "SYSTEM_ADMIN"})}, true},
		{"tenant roles json string", &Identity{TenantRoles: RolesFromString(`["SYSTEM_ADMIN"]`)}, true},
		{"tenant roles csv string", &Identity{TenantRoles: RolesFromString("worker,system_admin")}, true},
		{"tenant roles bare string", &Identity{TenantRoles: RolesFromString("SYSTEM_ADMIN")}, true},
		{"tenant roles garbage never panics", &Identity{TenantRoles: RolesFromString("}{][ not parseable")}, false},
		{"tenant roles empty", &Identity{TenantRoles: RoleList{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSystemAdmin(tt.id); got != tt.want {
				t.Errorf("IsSystemAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}
