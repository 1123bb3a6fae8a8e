package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertJournalRequest defines the data needed to change the kind of a journal.
// Account ids are not bound as required: a missing or repeated account is reported
// per field by the converter together with every other failed precondition.
type ConvertJournalRequest struct {
	Kind                 domain.TransactionKind `json:"kind" binding:"required,transaction_kind"`
	SourceAccountID      int64                  `json:"sourceAccountID"`
	DestinationAccountID int64                  `json:"destinationAccountID"`
}

// SetOrderRequest defines the new ordering index of a journal.
type SetOrderRequest struct {
	Order *int `json:"order" binding:"required,gte=0"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID int64              `json:"accountID"`
	Name      string             `json:"name"`
	Role      domain.AccountRole `json:"role"`
}

// LegResponse defines the data returned for a transaction leg.
type LegResponse struct {
	LegID      int64            `json:"legID"`
	JournalID  int64            `json:"journalID"`
	AccountID  int64            `json:"accountID"`
	Account    *AccountResponse `json:"account,omitempty"`
	Amount     decimal.Decimal  `json:"amount"`
	Identifier int              `json:"identifier"`
	Reconciled bool             `json:"reconciled"`
}

// JournalResponse defines the data returned for a journal and its legs.
type JournalResponse struct {
	JournalID   int64                  `json:"journalID"`
	Kind        domain.TransactionKind `json:"kind"`
	Date        time.Time              `json:"date"`
	Description string                 `json:"description"`
	Order       int                    `json:"order"`
	BudgetID    *int64                 `json:"budgetID,omitempty"`
	Legs        []LegResponse          `json:"legs"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// ListLegsResponse wraps a list of legs.
type ListLegsResponse struct {
	Legs []LegResponse `json:"legs"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ReconcileResponse reports the outcome of a reconcile request.
type ReconcileResponse struct {
	Reconciled bool         `json:"reconciled"`
	Leg        *LegResponse `json:"leg,omitempty"`
	Opposing   *LegResponse `json:"opposing,omitempty"`
	Reason     string       `json:"reason,omitempty"`
}

// ValidationErrorResponse carries every failed precondition keyed by field.
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields"`
}

// CountResponse wraps a count.
type CountResponse struct {
	Count int `json:"count"`
}

// NoteResponse wraps the note attached to a journal.
type NoteResponse struct {
	Note string `json:"note"`
}

// TotalResponse wraps the economic value of a journal.
type TotalResponse struct {
	Total decimal.Decimal `json:"total"`
}

// IntegrityResponse lists the identifier groups of a journal that do not balance.
type IntegrityResponse struct {
	Balanced         bool  `json:"balanced"`
	UnbalancedGroups []int `json:"unbalancedGroups"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: a.ID,
		Name:      a.Name,
		Role:      a.Role,
	}
}

// ToAccountResponses converts a slice of domain.Account to []AccountResponse.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		responses[i] = ToAccountResponse(a)
	}
	return responses
}

// ToLegResponse converts a domain.TransactionLeg to LegResponse DTO.
func ToLegResponse(l domain.TransactionLeg) LegResponse {
	resp := LegResponse{
		LegID:      l.ID,
		JournalID:  l.JournalID,
		AccountID:  l.AccountID,
		Amount:     l.Amount,
		Identifier: l.Identifier,
		Reconciled: l.Reconciled,
	}
	if l.Account != nil {
		acc := ToAccountResponse(*l.Account)
		resp.Account = &acc
	}
	return resp
}

// ToLegResponses converts a slice of domain.TransactionLeg to []LegResponse.
func ToLegResponses(legs []domain.TransactionLeg) []LegResponse {
	responses := make([]LegResponse, len(legs))
	for i, l := range legs {
		responses[i] = ToLegResponse(l)
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	return JournalResponse{
		JournalID:   j.ID,
		Kind:        j.Kind,
		Date:        j.Date,
		Description: j.Description,
		Order:       j.Order,
		BudgetID:    j.BudgetID,
		Legs:        ToLegResponses(j.Legs),
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ToReconcileResponse converts a domain.ReconciliationOutcome to ReconcileResponse DTO.
func ToReconcileResponse(o domain.ReconciliationOutcome) ReconcileResponse {
	resp := ReconcileResponse{Reconciled: o.Reconciled, Reason: o.Reason}
	if o.Leg != nil {
		l := ToLegResponse(*o.Leg)
		resp.Leg = &l
	}
	if o.Opposing != nil {
		l := ToLegResponse(*o.Opposing)
		resp.Opposing = &l
	}
	return resp
}
