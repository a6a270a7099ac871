package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasPermission_SuperAdminHoldsEverything(t *testing.T) {
	for _, perm := range AllKnownPermissions {
		require.True(t, HasPermission(RoleSuperAdmin, perm), "SUPER_ADMIN should hold %s", perm)
	}
}

func TestHasPermission_DirectAssignments(t *testing.T) {
	tests := []struct {
		name string
		role Role
		perm Permission
		want bool
	}{
		{"guest can view project", RoleGuest, PermViewProject, true},
		{"guest cannot add spending", RoleGuest, PermAddSpending, false},
		{"investor can add spending", RoleInvestor, PermAddSpending, true},
		{"investor can vote on modifications", RoleInvestor, PermVoteOnModifications, true},
		{"investor cannot add investors", RoleInvestor, PermAddInvestor, false},
		{"investor cannot manage users", RoleInvestor, PermManageUsers, false},
		{"project admin can manage project", RoleProjectAdmin, PermManageProject, true},
		{"project admin cannot manage users", RoleProjectAdmin, PermManageUsers, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, HasPermission(tt.role, tt.perm))
		})
	}
}

// Project admins inherit the investor permission set even though their
// hierarchy level is strictly higher; this inheritance is hard-coded,
// not derived from levels.
func TestHasPermission_ProjectAdminInheritsInvestorSet(t *testing.T) {
	for _, perm := range rolePermissions[RoleInvestor] {
		require.True(t, HasPermission(RoleProjectAdmin, perm),
			"PROJECT_ADMIN should inherit investor permission %s", perm)
	}
}

// The hard-coded inheritance applies only to the PROJECT_ADMIN/INVESTOR
// pair. INVESTOR sits above GUEST in the hierarchy, yet HasPermission
// does not walk levels: guest-only permissions stay guest-only there,
// while AllPermissions does union lower levels. Both behaviors coexist.
func TestHasPermission_NoGenericLevelInheritance(t *testing.T) {
	require.True(t, RoleInvestor.Level() > RoleGuest.Level())

	require.False(t, HasPermission(RoleInvestor, PermRequestAccess))
	require.False(t, HasPermission(RoleProjectAdmin, PermRequestAccess))

	require.Contains(t, AllPermissions(RoleInvestor), PermRequestAccess)
	require.Contains(t, AllPermissions(RoleProjectAdmin), PermRequestAccess)
}

func TestAllPermissions_SuperAdminGetsUniverse(t *testing.T) {
	require.ElementsMatch(t, AllKnownPermissions, AllPermissions(RoleSuperAdmin))
}

func TestAllPermissions_UnionsStrictlyLowerLevels(t *testing.T) {
	perms := AllPermissions(RoleProjectAdmin)

	// Own set plus everything from INVESTOR (level 1) and GUEST (level 0).
	for _, p := range rolePermissions[RoleProjectAdmin] {
		require.Contains(t, perms, p)
	}
	for _, p := range rolePermissions[RoleInvestor] {
		require.Contains(t, perms, p)
	}
	for _, p := range rolePermissions[RoleGuest] {
		require.Contains(t, perms, p)
	}

	// No permission outside the union, and no duplicates.
	seen := make(map[Permission]bool)
	for _, p := range perms {
		require.False(t, seen[p], "duplicate permission %s", p)
		seen[p] = true
	}
	require.NotContains(t, perms, PermManageUsers)
}

func TestRoleLevels(t *testing.T) {
	require.Equal(t, 0, RoleGuest.Level())
	require.Equal(t, 1, RoleInvestor.Level())
	require.Equal(t, 2, RoleProjectAdmin.Level())
	require.Equal(t, 3, RoleSuperAdmin.Level())

	require.True(t, RoleSuperAdmin.Valid())
	require.False(t, Role("AUDITOR").Valid())
}
