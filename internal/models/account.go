package models

// AccountRole is the stored role of an account.
type AccountRole string

// Account represents a row of the accounts table.
type Account struct {
	AccountID int64       `db:"id"`
	UserID    string      `db:"user_id"`
	Name      string      `db:"name"`
	Role      AccountRole `db:"role"`
	AuditFields
}
