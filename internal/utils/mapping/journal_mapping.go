package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:   d.ID,
		UserID:      d.UserID,
		Kind:        string(d.Kind),
		JournalDate: d.Date,
		Description: d.Description,
		Order:       d.Order,
		BudgetID:    d.BudgetID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal. Legs are attached separately.
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		ID:          m.JournalID,
		UserID:      m.UserID,
		Kind:        domain.TransactionKind(m.Kind),
		Date:        m.JournalDate,
		Description: m.Description,
		Order:       m.Order,
		BudgetID:    m.BudgetID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransaction converts a domain TransactionLeg to a model Transaction
func ToModelTransaction(d domain.TransactionLeg) models.Transaction {
	m := models.Transaction{
		TransactionID: d.ID,
		JournalID:     d.JournalID,
		AccountID:     d.AccountID,
		Amount:        d.Amount,
		Identifier:    d.Identifier,
		Reconciled:    d.Reconciled,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.Account != nil {
		acc := ToModelAccount(*d.Account)
		m.Account = &acc
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain TransactionLeg
func ToDomainTransaction(m models.Transaction) domain.TransactionLeg {
	d := domain.TransactionLeg{
		ID:          m.TransactionID,
		JournalID:   m.JournalID,
		AccountID:   m.AccountID,
		Amount:      m.Amount,
		Identifier:  m.Identifier,
		Reconciled:  m.Reconciled,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.Account != nil {
		acc := ToDomainAccount(*m.Account)
		d.Account = &acc
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain legs
func ToDomainTransactionSlice(ms []models.Transaction) []domain.TransactionLeg {
	ds := make([]domain.TransactionLeg, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
