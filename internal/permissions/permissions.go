package permissions

// Role is a global user role. Roles are totally ordered by Level; a
// user's effective role inside a project may differ from their global
// role (see ProjectRole).
type Role string

const (
	RoleGuest        Role = "GUEST"
	RoleInvestor     Role = "INVESTOR"
	RoleProjectAdmin Role = "PROJECT_ADMIN"
	RoleSuperAdmin   Role = "SUPER_ADMIN"
)

var roleLevels = map[Role]int{
	RoleGuest:        0,
	RoleInvestor:     1,
	RoleProjectAdmin: 2,
	RoleSuperAdmin:   3,
}

// Level returns the hierarchy level of the role. Unknown roles map to
// the guest level.
func (r Role) Level() int {
	return roleLevels[r]
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Permission is an opaque capability token from a closed set.
type Permission string

const (
	PermViewPortfolio       Permission = "VIEW_PORTFOLIO"
	PermViewProject         Permission = "VIEW_PROJECT"
	PermRequestAccess       Permission = "REQUEST_ACCESS"
	PermAddInvestor         Permission = "ADD_INVESTOR"
	PermRemoveInvestor      Permission = "REMOVE_INVESTOR"
	PermAddSpending         Permission = "ADD_SPENDING"
	PermVoteOnSpending      Permission = "VOTE_ON_SPENDING"
	PermProposeModification Permission = "PROPOSE_MODIFICATION"
	PermVoteOnModifications Permission = "VOTE_ON_MODIFICATIONS"
	PermManageProject       Permission = "MANAGE_PROJECT"
	PermManageUsers         Permission = "MANAGE_USERS"
)

// AllKnownPermissions is the full permission universe, in declaration
// order.
var AllKnownPermissions = []Permission{
	PermViewPortfolio,
	PermViewProject,
	PermRequestAccess,
	PermAddInvestor,
	PermRemoveInvestor,
	PermAddSpending,
	PermVoteOnSpending,
	PermProposeModification,
	PermVoteOnModifications,
	PermManageProject,
	PermManageUsers,
}

// rolePermissions maps each role to its directly assigned permissions.
// SUPER_ADMIN is intentionally absent: it holds every permission by
// definition, not by table lookup.
var rolePermissions = map[Role][]Permission{
	RoleGuest: {
		PermViewProject,
		PermRequestAccess,
	},
	RoleInvestor: {
		PermViewPortfolio,
		PermViewProject,
		PermAddSpending,
		PermVoteOnSpending,
		PermVoteOnModifications,
	},
	RoleProjectAdmin: {
		PermAddInvestor,
		PermRemoveInvestor,
		PermProposeModification,
		PermManageProject,
	},
}

// HasPermission reports whether the role grants the permission.
//
// PROJECT_ADMIN additionally inherits INVESTOR's direct set. That is the
// only inherited pair here; generic level-based inheritance exists only
// in AllPermissions and the two can diverge. Keep it that way.
func HasPermission(role Role, perm Permission) bool {
	if role == RoleSuperAdmin {
		return true
	}

	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}

	if role == RoleProjectAdmin {
		for _, p := range rolePermissions[RoleInvestor] {
			if p == perm {
				return true
			}
		}
	}

	return false
}

// AllPermissions returns every permission the role holds, including all
// permissions of roles at strictly lower hierarchy levels.
func AllPermissions(role Role) []Permission {
	if role == RoleSuperAdmin {
		out := make([]Permission, len(AllKnownPermissions))
		copy(out, AllKnownPermissions)
		return out
	}

	seen := make(map[Permission]bool)
	var out []Permission

	add := func(perms []Permission) {
		for _, p := range perms {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}

	add(rolePermissions[role])
	for other, level := range roleLevels {
		if level < role.Level() {
			add(rolePermissions[other])
		}
	}

	return out
}
