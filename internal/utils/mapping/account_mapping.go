package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.ID,
		UserID:      d.UserID,
		Name:        d.Name,
		Role:        models.AccountRole(d.Role),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		ID:          m.AccountID,
		UserID:      m.UserID,
		Name:        m.Name,
		Role:        domain.AccountRole(m.Role),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
