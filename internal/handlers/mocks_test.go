package handlers_test

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock QueryService ---
type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) FirstJournalByDate(ctx context.Context, userID string) (*domain.Journal, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Journal), args.Bool(1), args.Error(2)
}
func (m *MockQueryService) JournalByID(ctx context.Context, userID string, journalID int64) (*domain.Journal, bool, error) {
	args := m.Called(ctx, userID, journalID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Journal), args.Bool(1), args.Error(2)
}
func (m *MockQueryService) NoteFor(ctx context.Context, userID string, journalID int64) (string, bool, error) {
	args := m.Called(ctx, userID, journalID)
	return args.String(0), args.Bool(1), args.Error(2)
}
func (m *MockQueryService) IsTransfer(ctx context.Context, userID string, journalID int64) (bool, error) {
	args := m.Called(ctx, userID, journalID)
	return args.Bool(0), args.Error(1)
}
func (m *MockQueryService) LegsByIDs(ctx context.Context, userID string, legIDs []int64) ([]domain.TransactionLeg, error) {
	args := m.Called(ctx, userID, legIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLeg), args.Error(1)
}
func (m *MockQueryService) AssetLeg(ctx context.Context, userID string, journalID int64) (*domain.TransactionLeg, bool, error) {
	args := m.Called(ctx, userID, journalID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.TransactionLeg), args.Bool(1), args.Error(2)
}
func (m *MockQueryService) CountLegs(ctx context.Context, userID string, journalID int64) (int, error) {
	args := m.Called(ctx, userID, journalID)
	return args.Int(0), args.Error(1)
}
func (m *MockQueryService) SourceAccounts(ctx context.Context, userID string, journalID int64) ([]domain.Account, error) {
	args := m.Called(ctx, userID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockQueryService) DestinationAccounts(ctx context.Context, userID string, journalID int64) ([]domain.Account, error) {
	args := m.Called(ctx, userID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockQueryService) JournalTotal(ctx context.Context, userID string, journalID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, journalID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockQueryService) VerifyIntegrity(ctx context.Context, userID string, journalID int64) ([]int, error) {
	args := m.Called(ctx, userID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}
func (m *MockQueryService) SetOrder(ctx context.Context, userID string, journalID int64, order int) error {
	args := m.Called(ctx, userID, journalID, order)
	return args.Error(0)
}

var _ portssvc.JournalQuerySvcFacade = (*MockQueryService)(nil)

// --- Mock ConverterService ---
type MockConverterService struct {
	mock.Mock
}

func (m *MockConverterService) ConvertJournal(ctx context.Context, userID string, journalID int64, req dto.ConvertJournalRequest) (*domain.ValidationResult, error) {
	args := m.Called(ctx, userID, journalID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationResult), args.Error(1)
}

var _ portssvc.JournalConverterSvc = (*MockConverterService)(nil)

// --- Mock ResolverService ---
type MockResolverService struct {
	mock.Mock
}

func (m *MockResolverService) FindOpposingLeg(ctx context.Context, userID string, legID int64) (*domain.TransactionLeg, bool, error) {
	args := m.Called(ctx, userID, legID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.TransactionLeg), args.Bool(1), args.Error(2)
}
func (m *MockResolverService) FindOpposingFor(ctx context.Context, userID string, leg domain.TransactionLeg) (*domain.TransactionLeg, bool, error) {
	args := m.Called(ctx, userID, leg)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.TransactionLeg), args.Bool(1), args.Error(2)
}

var _ portssvc.OpposingLegResolverSvc = (*MockResolverService)(nil)

// --- Mock ReconcilerService ---
type MockReconcilerService struct {
	mock.Mock
}

func (m *MockReconcilerService) Reconcile(ctx context.Context, userID string, legID int64) (domain.ReconciliationOutcome, error) {
	args := m.Called(ctx, userID, legID)
	return args.Get(0).(domain.ReconciliationOutcome), args.Error(1)
}

var _ portssvc.ReconcilerSvc = (*MockReconcilerService)(nil)
