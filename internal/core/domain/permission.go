package domain

// Permission is an atomic "resource.action" tag. Permissions are flat: a
// role's set is always an explicit list, never derived by inheritance.
type Permission string

const (
	PermTicketView   Permission = "ticket.view"
	PermTicketCreate Permission = "ticket.create"
	PermTicketUpdate Permission = "ticket.update"
	PermTicketDelete Permission = "ticket.delete"
	PermTicketAssign Permission = "ticket.assign"

	PermAssetView   Permission = "asset.view"
	PermAssetCreate Permission = "asset.create"
	PermAssetUpdate Permission = "asset.update"
	PermAssetDelete Permission = "asset.delete"

	PermUserView       Permission = "user.view"
	PermUserManage     Permission = "user.manage"
	PermDeptManage     Permission = "department.manage"
	PermReportView     Permission = "report.view"
	PermSLAView        Permission = "sla.view"
	PermSLAManage      Permission = "sla.manage"
	PermDashboardView  Permission = "dashboard.view"
	PermAuditView      Permission = "audit.view"
)

func (p Permission) String() string { return string(p) }
