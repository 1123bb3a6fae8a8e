package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	journalRepo *MockJournalRepository
	publisher   *recordingPublisher
	reconciler  portssvc.ReconcilerSvc
	ctx         context.Context
	leg         domain.TransactionLeg
	opposing    domain.TransactionLeg
}

func (s *ReconciliationServiceTestSuite) SetupTest() {
	s.journalRepo = new(MockJournalRepository)
	s.publisher = &recordingPublisher{}
	resolver := services.NewOpposingLegResolver(s.journalRepo)
	s.reconciler = services.NewReconciliationService(s.journalRepo, resolver, s.publisher)
	s.ctx = context.Background()
	s.leg = testLeg(1, 10, 100, "-50.00", 1)
	s.opposing = testLeg(2, 10, 200, "50.00", 1)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

func (s *ReconciliationServiceTestSuite) expectPairLookup() {
	leg := s.leg
	s.journalRepo.On("FindLegByID", s.ctx, testUserID, int64(1)).Return(&leg, nil).Once()
	s.journalRepo.On("FindLegsByJournalID", s.ctx, testUserID, int64(10)).Return([]domain.TransactionLeg{s.leg, s.opposing}, nil).Once()
}

func (s *ReconciliationServiceTestSuite) TestReconcile_Success() {
	s.expectPairLookup()
	s.journalRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.journalRepo.On("LockLegsInTx", s.ctx, mock.Anything, testUserID, []int64{1, 2}).Return([]domain.TransactionLeg{s.leg, s.opposing}, nil).Once()
	s.journalRepo.On("MarkLegsReconciledInTx", s.ctx, mock.Anything, []int64{1, 2}, mock.AnythingOfType("time.Time")).Return(int64(2), nil).Once()
	s.journalRepo.On("Commit", s.ctx, mock.Anything).Return(nil).Once()
	s.journalRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Once()

	outcome, err := s.reconciler.Reconcile(s.ctx, testUserID, 1)

	s.Require().NoError(err)
	s.True(outcome.Reconciled)
	s.True(outcome.Leg.Reconciled)
	s.True(outcome.Opposing.Reconciled)
	s.Equal(int64(2), outcome.Opposing.ID)
	s.journalRepo.AssertExpectations(s.T())

	events := s.publisher.Events()
	s.Require().Len(events, 1)
	s.Equal(domain.EventLegsReconciled, events[0].Type)
	s.Equal([]int64{1, 2}, events[0].LegIDs)
	s.Equal([]int64{10}, events[0].JournalIDs)
}

func (s *ReconciliationServiceTestSuite) TestReconcile_AlreadyReconciledSucceedsAgain() {
	s.leg.Reconciled = true
	s.opposing.Reconciled = true
	s.expectPairLookup()
	s.journalRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.journalRepo.On("LockLegsInTx", s.ctx, mock.Anything, testUserID, []int64{1, 2}).Return([]domain.TransactionLeg{s.leg, s.opposing}, nil).Once()
	s.journalRepo.On("MarkLegsReconciledInTx", s.ctx, mock.Anything, []int64{1, 2}, mock.Anything).Return(int64(2), nil).Once()
	s.journalRepo.On("Commit", s.ctx, mock.Anything).Return(nil).Once()
	s.journalRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Once()

	outcome, err := s.reconciler.Reconcile(s.ctx, testUserID, 1)

	s.Require().NoError(err)
	s.True(outcome.Reconciled)
}

func (s *ReconciliationServiceTestSuite) TestReconcile_NoOpposingLeg() {
	unmatched := testLeg(2, 10, 200, "49.99", 1)
	leg := s.leg
	s.journalRepo.On("FindLegByID", s.ctx, testUserID, int64(1)).Return(&leg, nil).Once()
	s.journalRepo.On("FindLegsByJournalID", s.ctx, testUserID, int64(10)).Return([]domain.TransactionLeg{s.leg, unmatched}, nil).Once()

	outcome, err := s.reconciler.Reconcile(s.ctx, testUserID, 1)

	s.Require().NoError(err)
	s.False(outcome.Reconciled)
	s.Equal(domain.ReasonNoOpposingLeg, outcome.Reason)
	s.False(outcome.Leg.Reconciled)
	s.journalRepo.AssertNotCalled(s.T(), "Begin", mock.Anything)
	s.Empty(s.publisher.Events())
}

func (s *ReconciliationServiceTestSuite) TestReconcile_UnknownLeg() {
	s.journalRepo.On("FindLegByID", s.ctx, testUserID, int64(404)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.reconciler.Reconcile(s.ctx, testUserID, 404)

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReconciliationServiceTestSuite) TestReconcile_PartialUpdateRollsBack() {
	s.expectPairLookup()
	s.journalRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.journalRepo.On("LockLegsInTx", s.ctx, mock.Anything, testUserID, []int64{1, 2}).Return([]domain.TransactionLeg{s.leg, s.opposing}, nil).Once()
	s.journalRepo.On("MarkLegsReconciledInTx", s.ctx, mock.Anything, []int64{1, 2}, mock.Anything).Return(int64(1), nil).Once()
	s.journalRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Once()

	outcome, err := s.reconciler.Reconcile(s.ctx, testUserID, 1)

	s.ErrorIs(err, apperrors.ErrConflict)
	s.False(outcome.Reconciled)
	s.journalRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
	s.journalRepo.AssertCalled(s.T(), "Rollback", s.ctx, mock.Anything)
	s.Empty(s.publisher.Events())
}

func (s *ReconciliationServiceTestSuite) TestReconcile_LegChangedUnderLock() {
	s.expectPairLookup()
	changed := s.opposing
	changed.Amount = amount("45")
	s.journalRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.journalRepo.On("LockLegsInTx", s.ctx, mock.Anything, testUserID, []int64{1, 2}).Return([]domain.TransactionLeg{s.leg, changed}, nil).Once()
	s.journalRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Once()

	_, err := s.reconciler.Reconcile(s.ctx, testUserID, 1)

	s.ErrorIs(err, apperrors.ErrConflict)
	s.journalRepo.AssertNotCalled(s.T(), "MarkLegsReconciledInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconciliationServiceTestSuite) TestReconcile_CommitFailure() {
	commitErr := errors.New("serialization failure")
	s.expectPairLookup()
	s.journalRepo.On("Begin", s.ctx).Return(nil, nil).Once()
	s.journalRepo.On("LockLegsInTx", s.ctx, mock.Anything, testUserID, []int64{1, 2}).Return([]domain.TransactionLeg{s.leg, s.opposing}, nil).Once()
	s.journalRepo.On("MarkLegsReconciledInTx", s.ctx, mock.Anything, []int64{1, 2}, mock.Anything).Return(int64(2), nil).Once()
	s.journalRepo.On("Commit", s.ctx, mock.Anything).Return(commitErr).Once()
	s.journalRepo.On("Rollback", s.ctx, mock.Anything).Return(nil).Once()

	_, err := s.reconciler.Reconcile(s.ctx, testUserID, 1)

	s.ErrorIs(err, commitErr)
	s.Empty(s.publisher.Events())
}
