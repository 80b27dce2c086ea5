package domain

// Role identifies a user's organizational function. A session carries exactly
// one role; changing it requires a new token.
type Role string

const (
	RoleOrgAdmin         Role = "ORG_ADMIN"
	RoleManager          Role = "MANAGER"
	RoleHR               Role = "HR"
	RoleCXO              Role = "CXO"
	RoleEmployee         Role = "EMPLOYEE"
	RoleServiceDeskAdmin Role = "SERVICE_DESK_ADMIN"
	RoleServiceDeskAgent Role = "SERVICE_DESK_AGENT"
)

// AllRoles lists every role known to the console, in declaration order.
// The capability table must carry exactly one entry per element.
var AllRoles = []Role{
	RoleOrgAdmin,
	RoleManager,
	RoleHR,
	RoleCXO,
	RoleEmployee,
	RoleServiceDeskAdmin,
	RoleServiceDeskAgent,
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }
