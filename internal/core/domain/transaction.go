package domain

import "github.com/shopspring/decimal"

// TransactionLeg is one signed amount against one account inside a journal.
// A negative amount is a debit (money leaving the account), a positive amount a credit.
type TransactionLeg struct {
	ID         int64           `json:"id"`
	JournalID  int64           `json:"journalID"`
	AccountID  int64           `json:"accountID"`
	Account    *Account        `json:"account,omitempty"` // populated by queries that join accounts
	Amount     decimal.Decimal `json:"amount"`
	Identifier int             `json:"identifier"` // groups legs created together as one split
	Reconciled bool            `json:"reconciled"`
	AuditFields
}

// IsOutgoing reports whether the leg moves money out of its account.
func (l TransactionLeg) IsOutgoing() bool {
	return l.Amount.IsNegative()
}

// IsIncoming reports whether the leg moves money into its account.
func (l TransactionLeg) IsIncoming() bool {
	return l.Amount.IsPositive()
}

// ReconciliationOutcome describes the result of reconciling a leg with its counterpart.
type ReconciliationOutcome struct {
	Reconciled bool            `json:"reconciled"`
	Leg        *TransactionLeg `json:"leg,omitempty"`
	Opposing   *TransactionLeg `json:"opposing,omitempty"`
	Reason     string          `json:"reason,omitempty"`
}

// ReasonNoOpposingLeg is reported when a leg has no counterpart to reconcile with.
const ReasonNoOpposingLeg = "no opposing leg"
