package models

import "github.com/shopspring/decimal"

// Transaction represents a row of the transactions table: one leg of a journal.
type Transaction struct {
	TransactionID int64           `db:"id"`
	JournalID     int64           `db:"journal_id"`
	AccountID     int64           `db:"account_id"`
	Amount        decimal.Decimal `db:"amount"` // Signed, NUMERIC(32,12)
	Identifier    int             `db:"identifier"`
	Reconciled    bool            `db:"reconciled"`
	AuditFields

	// Populated when the query joins accounts.
	Account *Account `db:"-"`
}
