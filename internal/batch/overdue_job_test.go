package batch_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"library-engine/internal/batch"
	"library-engine/internal/domain/loan"
	"library-engine/internal/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLoanService struct {
	mock.Mock
}

func (m *mockLoanService) Borrow(ctx context.Context, copyID, memberID int64) (*loan.Loan, error) {
	ret := m.Called(ctx, copyID, memberID)

	var l *loan.Loan
	if ret.Get(0) != nil {
		l = ret.Get(0).(*loan.Loan)
	}
	return l, ret.Error(1)
}

func (m *mockLoanService) Return(ctx context.Context, loanID int64) error {
	return m.Called(ctx, loanID).Error(0)
}

func (m *mockLoanService) Renew(ctx context.Context, loanID int64) error {
	return m.Called(ctx, loanID).Error(0)
}

func (m *mockLoanService) ActiveLoans(ctx context.Context) ([]loan.ActiveLoan, error) {
	ret := m.Called(ctx)

	var loans []loan.ActiveLoan
	if ret.Get(0) != nil {
		loans = ret.Get(0).([]loan.ActiveLoan)
	}
	return loans, ret.Error(1)
}

func (m *mockLoanService) OverdueLoans(ctx context.Context) ([]loan.OverdueLoan, error) {
	ret := m.Called(ctx)

	var loans []loan.OverdueLoan
	if ret.Get(0) != nil {
		loans = ret.Get(0).([]loan.OverdueLoan)
	}
	return loans, ret.Error(1)
}

func (m *mockLoanService) OverdueMembers(ctx context.Context) ([]loan.MemberOverdue, error) {
	ret := m.Called(ctx)

	var members []loan.MemberOverdue
	if ret.Get(0) != nil {
		members = ret.Get(0).([]loan.MemberOverdue)
	}
	return members, ret.Error(1)
}

func (m *mockLoanService) HistoryByMember(ctx context.Context, memberID int64) ([]loan.HistoryEntry, error) {
	ret := m.Called(ctx, memberID)

	var history []loan.HistoryEntry
	if ret.Get(0) != nil {
		history = ret.Get(0).([]loan.HistoryEntry)
	}
	return history, ret.Error(1)
}

func (m *mockLoanService) HistoryByBook(ctx context.Context, bookID int64) ([]loan.HistoryEntry, error) {
	ret := m.Called(ctx, bookID)

	var history []loan.HistoryEntry
	if ret.Get(0) != nil {
		history = ret.Get(0).([]loan.HistoryEntry)
	}
	return history, ret.Error(1)
}

var _ loan.LoanService = (*mockLoanService)(nil)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishLoanCreated(ctx context.Context, e event.LoanCreatedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) PublishLoanReturned(ctx context.Context, e event.LoanReturnedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) PublishMemberDeactivated(ctx context.Context, e event.MemberDeactivatedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) PublishOverdueScan(ctx context.Context, e event.OverdueScanEvent) error {
	return m.Called(ctx, e).Error(0)
}

var _ event.Publisher = (*mockPublisher)(nil)

func TestOverdueScanJob_Run(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	overdue := []loan.OverdueLoan{
		{LoanID: 1, MemberID: 5, DaysOverdue: 3},
		{LoanID: 2, MemberID: 6, DaysOverdue: 12},
	}
	members := []loan.MemberOverdue{
		{MemberID: 5, OverdueCount: 1},
		{MemberID: 6, OverdueCount: 1},
	}

	t.Run("Publishes a scan summary", func(t *testing.T) {
		svc := new(mockLoanService)
		pub := new(mockPublisher)

		svc.On("OverdueLoans", ctx).Return(overdue, nil).Once()
		svc.On("OverdueMembers", ctx).Return(members, nil).Once()
		pub.On("PublishOverdueScan", ctx, mock.MatchedBy(func(e event.OverdueScanEvent) bool {
			return e.OverdueLoans == 2 && e.OverdueMembers == 2
		})).Return(nil).Once()

		job := batch.NewOverdueScanJob(svc, pub, logger)

		err := job.Run(ctx)

		assert.NoError(t, err)
		svc.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("Aborts when the overdue listing fails", func(t *testing.T) {
		svc := new(mockLoanService)
		pub := new(mockPublisher)

		svc.On("OverdueLoans", ctx).Return(nil, errors.New("connection reset")).Once()

		job := batch.NewOverdueScanJob(svc, pub, logger)

		err := job.Run(ctx)

		assert.Error(t, err)
		svc.AssertNotCalled(t, "OverdueMembers", mock.Anything)
		pub.AssertNotCalled(t, "PublishOverdueScan", mock.Anything, mock.Anything)
	})

	t.Run("A publish failure does not fail the scan", func(t *testing.T) {
		svc := new(mockLoanService)
		pub := new(mockPublisher)

		svc.On("OverdueLoans", ctx).Return(overdue, nil).Once()
		svc.On("OverdueMembers", ctx).Return(members, nil).Once()
		pub.On("PublishOverdueScan", ctx, mock.Anything).Return(errors.New("channel closed")).Once()

		job := batch.NewOverdueScanJob(svc, pub, logger)

		err := job.Run(ctx)

		assert.NoError(t, err)
	})
}
