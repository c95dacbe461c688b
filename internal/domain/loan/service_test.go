package loan_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"library-engine/internal/domain/book"
	"library-engine/internal/domain/loan"
	"library-engine/internal/event"
	"library-engine/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupLoanTest() (*loan.MockLoanRepository, loan.LoanService) {
	mockRepo := new(loan.MockLoanRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := loan.NewLoanService(mockRepo, event.NoopPublisher{}, logger)
	return mockRepo, service
}

func TestLoanService_Borrow(t *testing.T) {
	ctx := context.Background()
	tx := &loan.StubTx{}

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("BeginTx", ctx).Return(tx, nil).Once()
		mockRepo.On("LockCopyForUpdate", ctx, tx, int64(42)).
			Return(&loan.LockedCopy{ID: 42, BookID: 7, Status: book.CopyStatusAvailable}, nil).Once()
		mockRepo.On("FindBorrowerInTx", ctx, tx, int64(5)).
			Return(&loan.Borrower{ID: 5, IsDeleted: false}, nil).Once()
		mockRepo.On("InsertLoanInTx", ctx, tx, mock.MatchedBy(func(l *loan.Loan) bool {
			return l.CopyID == 42 && l.MemberID == 5 && l.ReturnDate == nil &&
				l.DueDate.Equal(l.LoanDate.AddDate(0, 0, loan.LoanPeriodDays))
		})).Return(&loan.Loan{ID: 1, CopyID: 42, MemberID: 5}, nil).Once()
		mockRepo.On("UpdateCopyStatusInTx", ctx, tx, int64(42), book.CopyStatusLoaned).Return(nil).Once()
		mockRepo.On("CommitTx", ctx, tx).Return(nil).Once()

		created, err := service.Borrow(ctx, 42, 5)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "RollbackTx", ctx, tx)
	})

	t.Run("Copy not found", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("BeginTx", ctx).Return(tx, nil).Once()
		mockRepo.On("LockCopyForUpdate", ctx, tx, int64(999)).Return(nil, apperrors.ErrNotFound).Once()
		mockRepo.On("RollbackTx", ctx, tx).Return(nil).Once()

		_, err := service.Borrow(ctx, 999, 5)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Contains(t, err.Error(), "copy 999")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Copy already loaned", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("BeginTx", ctx).Return(tx, nil).Once()
		mockRepo.On("LockCopyForUpdate", ctx, tx, int64(42)).
			Return(&loan.LockedCopy{ID: 42, BookID: 7, Status: book.CopyStatusLoaned}, nil).Once()
		mockRepo.On("RollbackTx", ctx, tx).Return(nil).Once()

		_, err := service.Borrow(ctx, 42, 5)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "InsertLoanInTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Member not found", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("BeginTx", ctx).Return(tx, nil).Once()
		mockRepo.On("LockCopyForUpdate", ctx, tx, int64(42)).
			Return(&loan.LockedCopy{ID: 42, BookID: 7, Status: book.CopyStatusAvailable}, nil).Once()
		mockRepo.On("FindBorrowerInTx", ctx, tx, int64(999)).Return(nil, apperrors.ErrNotFound).Once()
		mockRepo.On("RollbackTx", ctx, tx).Return(nil).Once()

		_, err := service.Borrow(ctx, 42, 999)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Contains(t, err.Error(), "member 999")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Member deactivated", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("BeginTx", ctx).Return(tx, nil).Once()
		mockRepo.On("LockCopyForUpdate", ctx, tx, int64(42)).
			Return(&loan.LockedCopy{ID: 42, BookID: 7, Status: book.CopyStatusAvailable}, nil).Once()
		mockRepo.On("FindBorrowerInTx", ctx, tx, int64(5)).
			Return(&loan.Borrower{ID: 5, IsDeleted: true}, nil).Once()
		mockRepo.On("RollbackTx", ctx, tx).Return(nil).Once()

		_, err := service.Borrow(ctx, 42, 5)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Begin failure surfaces as unavailable", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		beginErr := errors.Join(apperrors.ErrUnavailable, errors.New("connection refused"))
		mockRepo.On("BeginTx", ctx).Return(nil, beginErr).Once()

		_, err := service.Borrow(ctx, 42, 5)

		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "RollbackTx", mock.Anything, mock.Anything)
	})

	t.Run("Commit failure rolls back", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("BeginTx", ctx).Return(tx, nil).Once()
		mockRepo.On("LockCopyForUpdate", ctx, tx, int64(42)).
			Return(&loan.LockedCopy{ID: 42, BookID: 7, Status: book.CopyStatusAvailable}, nil).Once()
		mockRepo.On("FindBorrowerInTx", ctx, tx, int64(5)).
			Return(&loan.Borrower{ID: 5}, nil).Once()
		mockRepo.On("InsertLoanInTx", ctx, tx, mock.Anything).
			Return(&loan.Loan{ID: 1, CopyID: 42, MemberID: 5}, nil).Once()
		mockRepo.On("UpdateCopyStatusInTx", ctx, tx, int64(42), book.CopyStatusLoaned).Return(nil).Once()
		mockRepo.On("CommitTx", ctx, tx).Return(apperrors.ErrDatabase).Once()
		mockRepo.On("RollbackTx", ctx, tx).Return(nil).Once()

		_, err := service.Borrow(ctx, 42, 5)

		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Invalid ids rejected before any transaction", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		_, err := service.Borrow(ctx, 0, 5)

		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		mockRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})
}

func TestLoanService_Return(t *testing.T) {
	ctx := context.Background()
	tx := &loan.StubTx{}

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("BeginTx", ctx).Return(tx, nil).Once()
		mockRepo.On("LockActiveLoanForUpdate", ctx, tx, int64(10)).Return(int64(42), nil).Once()
		mockRepo.On("MarkReturnedInTx", ctx, tx, int64(10)).Return(nil).Once()
		mockRepo.On("UpdateCopyStatusInTx", ctx, tx, int64(42), book.CopyStatusAvailable).Return(nil).Once()
		mockRepo.On("CommitTx", ctx, tx).Return(nil).Once()

		err := service.Return(ctx, 10)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Already returned yields conflict", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("BeginTx", ctx).Return(tx, nil).Once()
		mockRepo.On("LockActiveLoanForUpdate", ctx, tx, int64(10)).Return(int64(0), apperrors.ErrNotFound).Once()
		mockRepo.On("RollbackTx", ctx, tx).Return(nil).Once()

		err := service.Return(ctx, 10)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Contains(t, err.Error(), "no active loan")
		mockRepo.AssertExpectations(t)
	})
}

func TestLoanService_Renew(t *testing.T) {
	ctx := context.Background()
	tx := &loan.StubTx{}

	t.Run("Success", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("BeginTx", ctx).Return(tx, nil).Once()
		mockRepo.On("ExtendDueDateInTx", ctx, tx, int64(10)).Return(int64(1), nil).Once()
		mockRepo.On("CommitTx", ctx, tx).Return(nil).Once()

		err := service.Renew(ctx, 10)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("No matching row yields validation error", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("BeginTx", ctx).Return(tx, nil).Once()
		mockRepo.On("ExtendDueDateInTx", ctx, tx, int64(10)).Return(int64(0), nil).Once()
		mockRepo.On("RollbackTx", ctx, tx).Return(nil).Once()

		err := service.Renew(ctx, 10)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "CommitTx", mock.Anything, mock.Anything)
	})
}

func TestLoanService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown member yields not found", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("MemberExists", ctx, int64(999)).Return(false, nil).Once()

		_, err := service.HistoryByMember(ctx, 999)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		mockRepo.AssertNotCalled(t, "GetHistoryByMember", mock.Anything, mock.Anything)
	})

	t.Run("Known member with empty history", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		mockRepo.On("MemberExists", ctx, int64(5)).Return(true, nil).Once()
		mockRepo.On("GetHistoryByMember", ctx, int64(5)).Return([]loan.HistoryEntry{}, nil).Once()

		history, err := service.HistoryByMember(ctx, 5)

		assert.NoError(t, err)
		assert.Empty(t, history)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Known book returns history", func(t *testing.T) {
		mockRepo, service := setupLoanTest()

		returnDate := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
		expected := []loan.HistoryEntry{{LoanID: 1, MemberName: "Ada Lovelace", Title: "Dune", ReturnDate: &returnDate}}

		mockRepo.On("BookExists", ctx, int64(7)).Return(true, nil).Once()
		mockRepo.On("GetHistoryByBook", ctx, int64(7)).Return(expected, nil).Once()

		history, err := service.HistoryByBook(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, expected, history)
		mockRepo.AssertExpectations(t)
	})
}
