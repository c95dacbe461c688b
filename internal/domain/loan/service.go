package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"library-engine/internal/domain/book"
	"library-engine/internal/event"
	"library-engine/internal/infrastructure/monitoring"
	"library-engine/internal/pkg/apperrors"
)

type LoanService interface {
	// Borrow creates an active loan for the given copy and member,
	// flipping the copy to loaned in the same transaction.
	Borrow(ctx context.Context, copyID, memberID int64) (*Loan, error)

	// Return closes the active loan and makes the copy available again.
	Return(ctx context.Context, loanID int64) error

	// Renew extends the due date by the loan period when the loan is
	// active, not past due, and the member is not deactivated.
	Renew(ctx context.Context, loanID int64) error

	ActiveLoans(ctx context.Context) ([]ActiveLoan, error)

	OverdueLoans(ctx context.Context) ([]OverdueLoan, error)

	OverdueMembers(ctx context.Context) ([]MemberOverdue, error)

	HistoryByMember(ctx context.Context, memberID int64) ([]HistoryEntry, error)

	HistoryByBook(ctx context.Context, bookID int64) ([]HistoryEntry, error)
}

type loanServiceImpl struct {
	repo   Repository
	pub    event.Publisher
	logger *slog.Logger
}

var _ LoanService = (*loanServiceImpl)(nil)

func NewLoanService(r Repository, pub event.Publisher, logger *slog.Logger) LoanService {
	if r == nil {
		panic("loan repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &loanServiceImpl{
		repo:   r,
		pub:    pub,
		logger: logger.With(slog.String("component", "loanService")),
	}
}

func (s *loanServiceImpl) Borrow(ctx context.Context, copyID, memberID int64) (createdLoan *Loan, err error) {
	logCtx := s.logger.With(slog.Int64("copyID", copyID), slog.Int64("memberID", memberID))
	logCtx.InfoContext(ctx, "Borrow requested")

	newLoan, err := NewLoan(copyID, memberID, time.Now())
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to begin borrow transaction", slog.Any("error", err))
		monitoring.RecordLoanOperation("borrow", "unavailable")
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			logCtx.ErrorContext(ctx, "Panic during borrow, rolling back", slog.Any("panic", p))
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		}
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
			monitoring.RecordLoanOperation("borrow", "failure")
		}
	}()

	lockedCopy, err := s.repo.LockCopyForUpdate(ctx, tx, copyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Copy not found for borrow")
			return nil, fmt.Errorf("%w: copy %d does not exist", apperrors.ErrNotFound, copyID)
		}
		return nil, err
	}

	if lockedCopy.Status != book.CopyStatusAvailable {
		logCtx.WarnContext(ctx, "Copy not available for loan", slog.String("status", string(lockedCopy.Status)))
		return nil, fmt.Errorf("%w: copy %d is not available for loan", apperrors.ErrConflict, copyID)
	}

	borrower, err := s.repo.FindBorrowerInTx(ctx, tx, memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Member not found for borrow")
			return nil, fmt.Errorf("%w: member %d does not exist", apperrors.ErrNotFound, memberID)
		}
		return nil, err
	}
	if borrower.IsDeleted {
		logCtx.WarnContext(ctx, "Deactivated member attempted to borrow")
		return nil, fmt.Errorf("%w: member %d is deactivated", apperrors.ErrForbidden, memberID)
	}

	createdLoan, err = s.repo.InsertLoanInTx(ctx, tx, newLoan)
	if err != nil {
		return nil, err
	}

	if err = s.repo.UpdateCopyStatusInTx(ctx, tx, copyID, book.CopyStatusLoaned); err != nil {
		return nil, err
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	monitoring.RecordLoanOperation("borrow", "success")
	logCtx.InfoContext(ctx, "Book loaned successfully", slog.Int64("loanID", createdLoan.ID))

	if pubErr := s.pub.PublishLoanCreated(ctx, event.LoanCreatedEvent{
		LoanID:    createdLoan.ID,
		CopyID:    createdLoan.CopyID,
		MemberID:  createdLoan.MemberID,
		DueDate:   createdLoan.DueDate,
		Timestamp: time.Now(),
	}); pubErr != nil {
		logCtx.ErrorContext(ctx, "Loan created, but failed to publish creation event", slog.Any("error", pubErr))
	}

	return createdLoan, nil
}

func (s *loanServiceImpl) Return(ctx context.Context, loanID int64) (err error) {
	logCtx := s.logger.With(slog.Int64("loanID", loanID))
	logCtx.InfoContext(ctx, "Return requested")

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to begin return transaction", slog.Any("error", err))
		monitoring.RecordLoanOperation("return", "unavailable")
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			logCtx.ErrorContext(ctx, "Panic during return, rolling back", slog.Any("panic", p))
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		}
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
			monitoring.RecordLoanOperation("return", "failure")
		}
	}()

	// The lock query matches id AND return_date IS NULL, so a miss covers
	// both an invalid id and a loan that was already returned.
	copyID, err := s.repo.LockActiveLoanForUpdate(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "No active loan found for return")
			return fmt.Errorf("%w: no active loan found with id %d", apperrors.ErrConflict, loanID)
		}
		return err
	}

	if err = s.repo.MarkReturnedInTx(ctx, tx, loanID); err != nil {
		return err
	}

	if err = s.repo.UpdateCopyStatusInTx(ctx, tx, copyID, book.CopyStatusAvailable); err != nil {
		return err
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return err
	}

	monitoring.RecordLoanOperation("return", "success")
	logCtx.InfoContext(ctx, "Book returned successfully", slog.Int64("copyID", copyID))

	if pubErr := s.pub.PublishLoanReturned(ctx, event.LoanReturnedEvent{
		LoanID:    loanID,
		CopyID:    copyID,
		Timestamp: time.Now(),
	}); pubErr != nil {
		logCtx.ErrorContext(ctx, "Loan returned, but failed to publish return event", slog.Any("error", pubErr))
	}

	return nil
}

func (s *loanServiceImpl) Renew(ctx context.Context, loanID int64) (err error) {
	logCtx := s.logger.With(slog.Int64("loanID", loanID))
	logCtx.InfoContext(ctx, "Renewal requested")

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to begin renewal transaction", slog.Any("error", err))
		monitoring.RecordLoanOperation("renew", "unavailable")
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			logCtx.ErrorContext(ctx, "Panic during renewal, rolling back", slog.Any("panic", p))
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		}
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
			monitoring.RecordLoanOperation("renew", "failure")
		}
	}()

	// One conditional UPDATE checks and acts atomically; no read-back is
	// needed, so the check-then-act race collapses into this statement.
	rows, err := s.repo.ExtendDueDateInTx(ctx, tx, loanID)
	if err != nil {
		return err
	}
	if rows == 0 {
		logCtx.WarnContext(ctx, "Renewal predicate matched no rows")
		return fmt.Errorf("%w: loan is either not active, past its due date, the member is deactivated, or the id is invalid", apperrors.ErrValidation)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return err
	}

	monitoring.RecordLoanOperation("renew", "success")
	logCtx.InfoContext(ctx, "Loan renewed successfully")
	return nil
}

func (s *loanServiceImpl) ActiveLoans(ctx context.Context) ([]ActiveLoan, error) {
	loans, err := s.repo.GetActiveLoans(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list active loans", slog.Any("error", err))
		return nil, err
	}
	return loans, nil
}

func (s *loanServiceImpl) OverdueLoans(ctx context.Context) ([]OverdueLoan, error) {
	loans, err := s.repo.GetOverdueLoans(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list overdue loans", slog.Any("error", err))
		return nil, err
	}
	return loans, nil
}

func (s *loanServiceImpl) OverdueMembers(ctx context.Context) ([]MemberOverdue, error) {
	members, err := s.repo.GetOverdueMembers(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to aggregate overdue members", slog.Any("error", err))
		return nil, err
	}
	return members, nil
}

func (s *loanServiceImpl) HistoryByMember(ctx context.Context, memberID int64) ([]HistoryEntry, error) {
	exists, err := s.repo.MemberExists(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: member %d does not exist", apperrors.ErrNotFound, memberID)
	}

	history, err := s.repo.GetHistoryByMember(ctx, memberID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch member loan history", slog.Int64("memberID", memberID), slog.Any("error", err))
		return nil, err
	}
	return history, nil
}

func (s *loanServiceImpl) HistoryByBook(ctx context.Context, bookID int64) ([]HistoryEntry, error) {
	exists, err := s.repo.BookExists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: book %d does not exist", apperrors.ErrNotFound, bookID)
	}

	history, err := s.repo.GetHistoryByBook(ctx, bookID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch book loan history", slog.Int64("bookID", bookID), slog.Any("error", err))
		return nil, err
	}
	return history, nil
}
