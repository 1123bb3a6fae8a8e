package domain

import "time"

// TransactionKind is the classification of a journal.
type TransactionKind string

const (
	KindWithdrawal     TransactionKind = "withdrawal"
	KindDeposit        TransactionKind = "deposit"
	KindTransfer       TransactionKind = "transfer"
	KindOpeningBalance TransactionKind = "opening-balance"
	KindReconciliation TransactionKind = "reconciliation"
)

// TransactionKinds lists every known kind in a stable order.
var TransactionKinds = []TransactionKind{
	KindWithdrawal,
	KindDeposit,
	KindTransfer,
	KindOpeningBalance,
	KindReconciliation,
}

// IsValid reports whether k is one of the known transaction kinds.
func (k TransactionKind) IsValid() bool {
	for _, known := range TransactionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Journal represents a single financial event composed of balanced legs.
// Legs are owned by the journal and destroyed with it.
type Journal struct {
	ID          int64            `json:"id"`
	UserID      string           `json:"userID"`
	Kind        TransactionKind  `json:"kind"`
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Order       int              `json:"order"`
	BudgetID    *int64           `json:"budgetID,omitempty"`
	Legs        []TransactionLeg `json:"legs,omitempty"` // Often loaded separately
	AuditFields
}

// HasBudget reports whether a budget is attached to the journal.
func (j Journal) HasBudget() bool {
	return j.BudgetID != nil
}
