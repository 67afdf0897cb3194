package auth

import "pos-service/internal/models"

// Action names gated by the permission table
const (
	ActionManageOrders     = "orders.manage"
	ActionManageStockItems = "stockItems.manage"
	ActionManageCustomers  = "customers.manage"
	ActionViewStatistics   = "statistics.view"
	ActionManageUsers      = "users.manage"
	ActionManageSessions   = "sessions.manage"
)

// permissions is the closed role x action table. A missing entry
// means deny.
var permissions = map[string]map[string]bool{
	models.RoleUser: {
		ActionManageOrders:     true,
		ActionManageStockItems: true,
		ActionManageCustomers:  true,
		ActionViewStatistics:   true,
	},
	models.RoleAdmin: {
		ActionManageOrders:     true,
		ActionManageStockItems: true,
		ActionManageCustomers:  true,
		ActionViewStatistics:   true,
		ActionManageUsers:      true,
	},
	models.RoleMaster: {
		ActionManageOrders:     true,
		ActionManageStockItems: true,
		ActionManageCustomers:  true,
		ActionViewStatistics:   true,
		ActionManageUsers:      true,
		ActionManageSessions:   true,
	},
}

// Can reports whether the role is allowed to perform the action
func Can(role, action string) bool {
	return permissions[role][action]
}
