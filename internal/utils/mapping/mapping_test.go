package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainTransaction_CarriesJoinedAccount(t *testing.T) {
	m := models.Transaction{
		TransactionID: 5,
		JournalID:     2,
		AccountID:     9,
		Amount:        decimal.RequireFromString("-12.340000000000"),
		Identifier:    1,
		Reconciled:    true,
		Account:       &models.Account{AccountID: 9, Name: "Checking", Role: "asset"},
	}

	d := ToDomainTransaction(m)

	assert.Equal(t, int64(5), d.ID)
	assert.True(t, d.Amount.Equal(decimal.RequireFromString("-12.34")))
	assert.True(t, d.IsOutgoing())
	require.NotNil(t, d.Account)
	assert.Equal(t, domain.RoleAsset, d.Account.Role)
}

func TestToDomainJournal_KeepsNullableBudget(t *testing.T) {
	budget := int64(4)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	d := ToDomainJournal(models.Journal{JournalID: 1, Kind: "withdrawal", JournalDate: date, BudgetID: &budget})
	assert.Equal(t, domain.KindWithdrawal, d.Kind)
	assert.True(t, d.HasBudget())
	assert.Equal(t, date, d.Date)

	assert.False(t, ToDomainJournal(models.Journal{JournalID: 2}).HasBudget())
	assert.Nil(t, ToModelJournal(domain.Journal{ID: 2}).BudgetID)
}
