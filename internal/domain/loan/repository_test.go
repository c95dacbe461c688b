package loan

import (
	"context"

	"library-engine/internal/domain/book"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// StubTx stands in for a live transaction handle; the service only passes
// it through to the repository, so none of its methods are ever called.
type StubTx struct {
	pgx.Tx
}

type MockLoanRepository struct {
	mock.Mock
}

func (_m *MockLoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var r0 pgx.Tx
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(pgx.Tx)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return _m.Called(ctx, tx).Error(0)
}

func (_m *MockLoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return _m.Called(ctx, tx).Error(0)
}

func (_m *MockLoanRepository) LockCopyForUpdate(ctx context.Context, tx pgx.Tx, copyID int64) (*LockedCopy, error) {
	ret := _m.Called(ctx, tx, copyID)

	var r0 *LockedCopy
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*LockedCopy)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) FindBorrowerInTx(ctx context.Context, tx pgx.Tx, memberID int64) (*Borrower, error) {
	ret := _m.Called(ctx, tx, memberID)

	var r0 *Borrower
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Borrower)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) InsertLoanInTx(ctx context.Context, tx pgx.Tx, newLoan *Loan) (*Loan, error) {
	ret := _m.Called(ctx, tx, newLoan)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) UpdateCopyStatusInTx(ctx context.Context, tx pgx.Tx, copyID int64, status book.CopyStatus) error {
	return _m.Called(ctx, tx, copyID, status).Error(0)
}

func (_m *MockLoanRepository) LockActiveLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (int64, error) {
	ret := _m.Called(ctx, tx, loanID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockLoanRepository) MarkReturnedInTx(ctx context.Context, tx pgx.Tx, loanID int64) error {
	return _m.Called(ctx, tx, loanID).Error(0)
}

func (_m *MockLoanRepository) ExtendDueDateInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int64, error) {
	ret := _m.Called(ctx, tx, loanID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockLoanRepository) GetActiveLoans(ctx context.Context) ([]ActiveLoan, error) {
	ret := _m.Called(ctx)

	var r0 []ActiveLoan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]ActiveLoan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) GetOverdueLoans(ctx context.Context) ([]OverdueLoan, error) {
	ret := _m.Called(ctx)

	var r0 []OverdueLoan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]OverdueLoan)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) GetOverdueMembers(ctx context.Context) ([]MemberOverdue, error) {
	ret := _m.Called(ctx)

	var r0 []MemberOverdue
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]MemberOverdue)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) GetHistoryByMember(ctx context.Context, memberID int64) ([]HistoryEntry, error) {
	ret := _m.Called(ctx, memberID)

	var r0 []HistoryEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]HistoryEntry)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) GetHistoryByBook(ctx context.Context, bookID int64) ([]HistoryEntry, error) {
	ret := _m.Called(ctx, bookID)

	var r0 []HistoryEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]HistoryEntry)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanRepository) MemberExists(ctx context.Context, memberID int64) (bool, error) {
	ret := _m.Called(ctx, memberID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockLoanRepository) BookExists(ctx context.Context, bookID int64) (bool, error) {
	ret := _m.Called(ctx, bookID)
	return ret.Bool(0), ret.Error(1)
}

var _ Repository = (*MockLoanRepository)(nil)
