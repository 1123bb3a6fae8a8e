package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account owned by the user.
	FindAccountByID(ctx context.Context, userID string, accountID int64) (*domain.Account, error)

	// FindAccountsByIDs retrieves several accounts keyed by id. Missing ids are absent from the map.
	FindAccountsByIDs(ctx context.Context, userID string, accountIDs []int64) (map[int64]domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
}
