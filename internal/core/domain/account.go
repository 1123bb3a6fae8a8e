package domain

// AccountRole defines the fixed role of an account. The role decides which side
// of a leg the account may occupy for a given transaction kind.
type AccountRole string

const (
	RoleAsset          AccountRole = "asset"
	RoleExpense        AccountRole = "expense"
	RoleRevenue        AccountRole = "revenue"
	RoleLiability      AccountRole = "liability"
	RoleInitialBalance AccountRole = "initial-balance"
	RoleReconciliation AccountRole = "reconciliation"
	RoleCash           AccountRole = "cash"
)

// IsValid reports whether r is one of the known account roles.
func (r AccountRole) IsValid() bool {
	switch r {
	case RoleAsset, RoleExpense, RoleRevenue, RoleLiability, RoleInitialBalance, RoleReconciliation, RoleCash:
		return true
	}
	return false
}

// Account represents a ledger account owned by a single user.
type Account struct {
	ID     int64       `json:"id"`
	UserID string      `json:"userID"`
	Name   string      `json:"name"`
	Role   AccountRole `json:"role"` // immutable once created
	AuditFields
}

// RoleFor returns the fixed role of the account.
func RoleFor(account Account) AccountRole {
	return account.Role
}
