package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, userID string, journalID int64) (*domain.Journal, error) {
	args := m.Called(ctx, userID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindFirstJournal(ctx context.Context, userID string) (*domain.Journal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) UpdateJournalOrder(ctx context.Context, userID string, journalID int64, order int, now time.Time) error {
	args := m.Called(ctx, userID, journalID, order, now)
	return args.Error(0)
}

func (m *MockJournalRepository) FindLegByID(ctx context.Context, userID string, legID int64) (*domain.TransactionLeg, error) {
	args := m.Called(ctx, userID, legID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionLeg), args.Error(1)
}

func (m *MockJournalRepository) FindLegsByJournalID(ctx context.Context, userID string, journalID int64) ([]domain.TransactionLeg, error) {
	args := m.Called(ctx, userID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLeg), args.Error(1)
}

func (m *MockJournalRepository) FindLegsByIDs(ctx context.Context, userID string, legIDs []int64) ([]domain.TransactionLeg, error) {
	args := m.Called(ctx, userID, legIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLeg), args.Error(1)
}

func (m *MockJournalRepository) CountLegsByJournalID(ctx context.Context, userID string, journalID int64) (int, error) {
	args := m.Called(ctx, userID, journalID)
	return args.Int(0), args.Error(1)
}

func (m *MockJournalRepository) FindJournalForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string, journalID int64) (*domain.Journal, error) {
	args := m.Called(ctx, tx, userID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) LockLegsInTx(ctx context.Context, tx pgx.Tx, userID string, legIDs []int64) ([]domain.TransactionLeg, error) {
	args := m.Called(ctx, tx, userID, legIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLeg), args.Error(1)
}

func (m *MockJournalRepository) MarkLegsReconciledInTx(ctx context.Context, tx pgx.Tx, legIDs []int64, now time.Time) (int64, error) {
	args := m.Called(ctx, tx, legIDs, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) ReassignLegAccountsInTx(ctx context.Context, tx pgx.Tx, accountByLeg map[int64]int64, now time.Time) error {
	args := m.Called(ctx, tx, accountByLeg, now)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournalKindInTx(ctx context.Context, tx pgx.Tx, journalID int64, kind domain.TransactionKind, detachBudget bool, now time.Time) error {
	args := m.Called(ctx, tx, journalID, kind, detachBudget, now)
	return args.Error(0)
}

func (m *MockJournalRepository) FindLegsByJournalIDInTx(ctx context.Context, tx pgx.Tx, journalID int64) ([]domain.TransactionLeg, error) {
	args := m.Called(ctx, tx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLeg), args.Error(1)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, userID string, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, userID string, accountIDs []int64) (map[int64]domain.Account, error) {
	args := m.Called(ctx, userID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.Account), args.Error(1)
}

// --- Mock NoteRepository ---
type MockNoteRepository struct {
	mock.Mock
}

var _ portsrepo.NoteRepositoryFacade = (*MockNoteRepository)(nil)

func (m *MockNoteRepository) FindNoteByJournalID(ctx context.Context, userID string, journalID int64) (string, error) {
	args := m.Called(ctx, userID, journalID)
	return args.String(0), args.Error(1)
}

// --- Recording publisher ---
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

var _ portssvc.EventPublisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Publish(_ context.Context, event domain.LedgerEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []domain.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.LedgerEvent(nil), p.events...)
}

// --- fixtures ---

const testUserID = "user-1"

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testLeg(id, journalID, accountID int64, amt string, identifier int) domain.TransactionLeg {
	return domain.TransactionLeg{
		ID:         id,
		JournalID:  journalID,
		AccountID:  accountID,
		Amount:     amount(amt),
		Identifier: identifier,
	}
}

func withAccount(l domain.TransactionLeg, role domain.AccountRole) domain.TransactionLeg {
	l.Account = &domain.Account{ID: l.AccountID, UserID: testUserID, Name: string(role), Role: role}
	return l
}
