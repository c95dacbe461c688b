package loan

import (
	"context"

	"library-engine/internal/domain/book"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// LockCopyForUpdate reads the copy row under FOR UPDATE, serializing
	// conflicting borrow/return attempts on the same copy.
	LockCopyForUpdate(ctx context.Context, tx pgx.Tx, copyID int64) (*LockedCopy, error)

	FindBorrowerInTx(ctx context.Context, tx pgx.Tx, memberID int64) (*Borrower, error)

	InsertLoanInTx(ctx context.Context, tx pgx.Tx, newLoan *Loan) (*Loan, error)

	UpdateCopyStatusInTx(ctx context.Context, tx pgx.Tx, copyID int64, status book.CopyStatus) error

	// LockActiveLoanForUpdate locks the loan row matching the id AND
	// return_date IS NULL, returning its copy id. A miss means the loan
	// does not exist or was already returned.
	LockActiveLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (copyID int64, err error)

	MarkReturnedInTx(ctx context.Context, tx pgx.Tx, loanID int64) error

	// ExtendDueDateInTx runs the single predicate-gated renewal update and
	// reports how many rows it touched.
	ExtendDueDateInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int64, error)

	GetActiveLoans(ctx context.Context) ([]ActiveLoan, error)

	GetOverdueLoans(ctx context.Context) ([]OverdueLoan, error)

	GetOverdueMembers(ctx context.Context) ([]MemberOverdue, error)

	GetHistoryByMember(ctx context.Context, memberID int64) ([]HistoryEntry, error)

	GetHistoryByBook(ctx context.Context, bookID int64) ([]HistoryEntry, error)

	MemberExists(ctx context.Context, memberID int64) (bool, error)

	BookExists(ctx context.Context, bookID int64) (bool, error)
}
