package domain

import "fmt"

// NavItem is one entry of the console navigation tree. An item is visible to
// a session iff the session's role appears in RequiredRoles; children are
// filtered independently by the same rule.
type NavItem struct {
	Path          string    `json:"path"`
	Label         string    `json:"label"`
	Icon          string    `json:"icon"`
	RequiredRoles []Role    `json:"-"`
	Children      []NavItem `json:"children,omitempty"`
}

// VisibleTo reports whether role may see this item.
func (n NavItem) VisibleTo(role Role) bool {
	for _, r := range n.RequiredRoles {
		if r == role {
			return true
		}
	}
	return false
}

// QuickAction is a role-specific shortcut rendered next to the navigation.
type QuickAction struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

// CapabilityEntry is the static capability row for one role: its flat
// permission set, its quick-action shortcuts and its default landing page.
type CapabilityEntry struct {
	Role             Role
	Permissions      []Permission
	QuickActions     []QuickAction
	DefaultDashboard string
}

// DefaultDashboardFallback is the global landing page used when a role has no
// dashboard configured. Navigation must never dead-end the user.
const DefaultDashboardFallback = "/dashboard"

var allRolesNav = AllRoles

// NavTree is the full console navigation, in render order. Read-only after
// process start; safe for unsynchronized concurrent reads.
var NavTree = []NavItem{
	{
		Path: "/dashboard", Label: "Dashboard", Icon: "gauge",
		RequiredRoles: allRolesNav,
	},
	{
		Path: "/tickets", Label: "Tickets", Icon: "ticket",
		RequiredRoles: allRolesNav,
		Children: []NavItem{
			{Path: "/tickets/mine", Label: "My Tickets", Icon: "inbox", RequiredRoles: allRolesNav},
			{Path: "/tickets/all", Label: "All Tickets", Icon: "list",
				RequiredRoles: []Role{RoleOrgAdmin, RoleManager, RoleServiceDeskAdmin, RoleServiceDeskAgent}},
			{Path: "/tickets/sla", Label: "SLA Policies", Icon: "timer",
				RequiredRoles: []Role{RoleOrgAdmin, RoleServiceDeskAdmin}},
		},
	},
	{
		Path: "/assets", Label: "Assets", Icon: "monitor",
		RequiredRoles: []Role{RoleOrgAdmin, RoleManager, RoleServiceDeskAdmin, RoleServiceDeskAgent},
		Children: []NavItem{
			{Path: "/assets/inventory", Label: "Inventory", Icon: "boxes",
				RequiredRoles: []Role{RoleOrgAdmin, RoleManager, RoleServiceDeskAdmin, RoleServiceDeskAgent}},
			{Path: "/assets/network", Label: "Network", Icon: "network",
				RequiredRoles: []Role{RoleOrgAdmin, RoleServiceDeskAdmin}},
		},
	},
	{
		Path: "/people", Label: "People", Icon: "users",
		RequiredRoles: []Role{RoleOrgAdmin, RoleManager, RoleHR},
		Children: []NavItem{
			{Path: "/people/users", Label: "Users", Icon: "user",
				RequiredRoles: []Role{RoleOrgAdmin, RoleHR}},
			{Path: "/people/departments", Label: "Departments", Icon: "building",
				RequiredRoles: []Role{RoleOrgAdmin, RoleHR}},
		},
	},
	{
		Path: "/reports", Label: "Reports", Icon: "chart",
		RequiredRoles: []Role{RoleOrgAdmin, RoleManager, RoleCXO, RoleServiceDeskAdmin},
	},
	{
		Path: "/settings", Label: "Settings", Icon: "cog",
		RequiredRoles: []Role{RoleOrgAdmin},
	},
}

// capabilityTable holds one entry per role, keyed for O(1) lookup. It is
// configuration, not state: initialized here and never mutated at runtime.
var capabilityTable = map[Role]CapabilityEntry{
	RoleOrgAdmin: {
		Role: RoleOrgAdmin,
		Permissions: []Permission{
			PermTicketView, PermTicketCreate, PermTicketUpdate, PermTicketDelete, PermTicketAssign,
			PermAssetView, PermAssetCreate, PermAssetUpdate, PermAssetDelete,
			PermUserView, PermUserManage, PermDeptManage,
			PermReportView, PermSLAView, PermSLAManage,
			PermDashboardView, PermAuditView,
		},
		QuickActions: []QuickAction{
			{Label: "New Ticket", Path: "/tickets/new", Icon: "plus"},
			{Label: "Invite User", Path: "/people/users/new", Icon: "user-plus"},
			{Label: "SLA Policies", Path: "/tickets/sla", Icon: "timer"},
		},
		DefaultDashboard: "/dashboard/admin",
	},
	RoleManager: {
		Role: RoleManager,
		Permissions: []Permission{
			PermTicketView, PermTicketCreate, PermTicketUpdate, PermTicketAssign,
			PermAssetView, PermUserView, PermReportView, PermSLAView, PermDashboardView,
		},
		QuickActions: []QuickAction{
			{Label: "New Ticket", Path: "/tickets/new", Icon: "plus"},
			{Label: "Team Report", Path: "/reports", Icon: "chart"},
		},
		DefaultDashboard: "/dashboard/manager",
	},
	RoleHR: {
		Role: RoleHR,
		Permissions: []Permission{
			PermTicketView, PermTicketCreate,
			PermUserView, PermUserManage, PermDeptManage, PermDashboardView,
		},
		QuickActions: []QuickAction{
			{Label: "Invite User", Path: "/people/users/new", Icon: "user-plus"},
			{Label: "Departments", Path: "/people/departments", Icon: "building"},
		},
		DefaultDashboard: "/dashboard/hr",
	},
	RoleCXO: {
		Role: RoleCXO,
		Permissions: []Permission{
			PermTicketView, PermTicketCreate, PermReportView, PermDashboardView,
		},
		QuickActions: []QuickAction{
			{Label: "Reports", Path: "/reports", Icon: "chart"},
		},
		DefaultDashboard: "/dashboard/cxo",
	},
	RoleEmployee: {
		Role: RoleEmployee,
		Permissions: []Permission{
			PermTicketView, PermTicketCreate, PermDashboardView,
		},
		QuickActions: []QuickAction{
			{Label: "New Ticket", Path: "/tickets/new", Icon: "plus"},
		},
		DefaultDashboard: "/dashboard/employee",
	},
	RoleServiceDeskAdmin: {
		Role: RoleServiceDeskAdmin,
		Permissions: []Permission{
			PermTicketView, PermTicketCreate, PermTicketUpdate, PermTicketDelete, PermTicketAssign,
			PermAssetView, PermAssetCreate, PermAssetUpdate, PermAssetDelete,
			PermReportView, PermSLAView, PermSLAManage, PermDashboardView,
		},
		QuickActions: []QuickAction{
			{Label: "Assign Queue", Path: "/tickets/all", Icon: "list"},
			{Label: "SLA Policies", Path: "/tickets/sla", Icon: "timer"},
		},
		DefaultDashboard: "/dashboard/servicedesk",
	},
	RoleServiceDeskAgent: {
		Role: RoleServiceDeskAgent,
		Permissions: []Permission{
			PermTicketView, PermTicketCreate, PermTicketUpdate, PermTicketAssign,
			PermAssetView, PermDashboardView,
		},
		QuickActions: []QuickAction{
			{Label: "Assign Queue", Path: "/tickets/all", Icon: "list"},
		},
		DefaultDashboard: "/dashboard/servicedesk",
	},
}

// CapabilityFor returns the capability entry for role. The second return
// value is false for unknown roles; callers decide the fallback.
func CapabilityFor(role Role) (CapabilityEntry, bool) {
	entry, ok := capabilityTable[role]
	return entry, ok
}

// ValidateCapabilityTable checks the table invariant: every enumerated role
// has exactly one entry and no entry exists for a role outside the
// enumeration. Called once at startup; a violation is a deployment bug.
func ValidateCapabilityTable() error {
	for _, role := range AllRoles {
		if _, ok := capabilityTable[role]; !ok {
			return fmt.Errorf("capability table: missing entry for role %s", role)
		}
	}
	for role := range capabilityTable {
		if !role.Valid() {
			return fmt.Errorf("capability table: entry for unknown role %s", role)
		}
	}
	return nil
}
