package service

import "github.com/helpdeskhq/console-gateway/internal/core/domain"

// NavigationDeriver computes the navigation surface for a role from the
// static capability table. Every method is a pure function of its inputs.
type NavigationDeriver struct {
	tree []domain.NavItem
}

func NewNavigationDeriver() *NavigationDeriver {
	return &NavigationDeriver{tree: domain.NavTree}
}

// NavigationFor filters the navigation tree down to the items role may see.
// The filter is stable: output order matches declaration order, and children
// are filtered independently of their parent.
func (nd *NavigationDeriver) NavigationFor(role domain.Role) []domain.NavItem {
	return filterNav(nd.tree, role)
}

func filterNav(items []domain.NavItem, role domain.Role) []domain.NavItem {
	out := make([]domain.NavItem, 0, len(items))
	for _, item := range items {
		if !item.VisibleTo(role) {
			continue
		}
		item.Children = filterNav(item.Children, role)
		out = append(out, item)
	}
	return out
}

// QuickActionsFor returns the role's quick-action list verbatim from the
// capability table; empty when the role has none defined.
func (nd *NavigationDeriver) QuickActionsFor(role domain.Role) []domain.QuickAction {
	entry, ok := domain.CapabilityFor(role)
	if !ok {
		return nil
	}
	return entry.QuickActions
}

// DefaultDashboardFor returns the role's landing page. Unknown roles (or
// roles with no dashboard configured) get the global fallback rather than an
// error: navigation must never dead-end the user.
func (nd *NavigationDeriver) DefaultDashboardFor(role domain.Role) string {
	entry, ok := domain.CapabilityFor(role)
	if !ok || entry.DefaultDashboard == "" {
		return domain.DefaultDashboardFallback
	}
	return entry.DefaultDashboard
}

// HasAccessToPath walks the full, unfiltered navigation tree looking for an
// exact path match and reports whether role may see that node. Paths absent
// from the tree are denied by default, not granted.
func (nd *NavigationDeriver) HasAccessToPath(role domain.Role, path string) bool {
	return pathAllowed(nd.tree, role, path)
}

func pathAllowed(items []domain.NavItem, role domain.Role, path string) bool {
	for _, item := range items {
		if item.Path == path {
			return item.VisibleTo(role)
		}
		if pathAllowed(item.Children, role, path) {
			return true
		}
	}
	return false
}
