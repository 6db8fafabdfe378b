package identity

// Action is an operation gated by the access policy
type Action string

const (
	ActionManageCatalog Action = "manage_catalog"
	ActionCreateSale    Action = "create_sale"
	ActionViewReports   Action = "view_reports"
	ActionViewOwnOrders Action = "view_own_orders"
	ActionViewAllSales  Action = "view_all_sales"
	ActionManageUsers   Action = "manage_users"
)

// policy is the static role x action capability matrix. Customers buy
// through the cart/checkout flow, so they get no POS or catalog rights.
var policy = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionManageCatalog: true,
		ActionCreateSale:    true,
		ActionViewReports:   true,
		ActionViewOwnOrders: true,
		ActionViewAllSales:  true,
		ActionManageUsers:   true,
	},
	RoleCashier: {
		ActionManageCatalog: true,
		ActionCreateSale:    true,
		ActionViewOwnOrders: true,
	},
	RoleCustomer: {
		ActionViewOwnOrders: true,
	},
}

// Can reports whether a role is allowed to perform an action. Unknown
// roles and unknown actions are always denied.
func Can(role Role, action Action) bool {
	perms, ok := policy[role]
	if !ok {
		return false
	}
	return perms[action]
}
