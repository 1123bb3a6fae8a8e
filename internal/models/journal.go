package models

import "time"

// Journal represents a row of the transaction_journals table.
type Journal struct {
	JournalID   int64     `db:"id"`
	UserID      string    `db:"user_id"`
	Kind        string    `db:"kind"`
	JournalDate time.Time `db:"date"`
	Description string    `db:"description"`
	Order       int       `db:"order"`
	BudgetID    *int64    `db:"budget_id"` // Nullable
	AuditFields
}
