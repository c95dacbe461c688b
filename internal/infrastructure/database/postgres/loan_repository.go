package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"library-engine/internal/domain/book"
	"library-engine/internal/domain/loan"
	"library-engine/internal/infrastructure/monitoring"
	"library-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	if db == nil {
		panic("DBPool cannot be nil for LoanRepository")
	}
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

// BeginTx failures are the "no connection/transaction available" case and
// surface as service-unavailable rather than an internal failure.
func (r *LoanRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrUnavailable, err)
	}
	return tx, nil
}

func (r *LoanRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Commit(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) LockCopyForUpdate(ctx context.Context, tx pgx.Tx, copyID int64) (*loan.LockedCopy, error) {
	query := `
        SELECT id, book_id, status
        FROM book_copies
        WHERE id = $1
        FOR UPDATE`

	var c loan.LockedCopy
	err := tx.QueryRow(ctx, query, copyID).Scan(&c.ID, &c.BookID, &c.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Copy not found while locking", "copy_id", copyID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock copy row", "copy_id", copyID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &c, nil
}

func (r *LoanRepository) FindBorrowerInTx(ctx context.Context, tx pgx.Tx, memberID int64) (*loan.Borrower, error) {
	query := `SELECT id, is_deleted FROM members WHERE id = $1`

	var b loan.Borrower
	err := tx.QueryRow(ctx, query, memberID).Scan(&b.ID, &b.IsDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Member not found in borrow transaction", "member_id", memberID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to read member in borrow transaction", "member_id", memberID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &b, nil
}

func (r *LoanRepository) InsertLoanInTx(ctx context.Context, tx pgx.Tx, newLoan *loan.Loan) (*loan.Loan, error) {
	query := `
        INSERT INTO loans (copy_id, member_id, loan_date, due_date, return_date)
        VALUES ($1, $2, $3, $4, NULL)
        RETURNING id, copy_id, member_id, loan_date, due_date`

	var created loan.Loan
	err := tx.QueryRow(ctx, query, newLoan.CopyID, newLoan.MemberID, newLoan.LoanDate, newLoan.DueDate).Scan(
		&created.ID, &created.CopyID, &created.MemberID, &created.LoanDate, &created.DueDate,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "copy_id", newLoan.CopyID, "member_id", newLoan.MemberID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", created.ID)
	return &created, nil
}

func (r *LoanRepository) UpdateCopyStatusInTx(ctx context.Context, tx pgx.Tx, copyID int64, status book.CopyStatus) error {
	query := `UPDATE book_copies SET status = $1 WHERE id = $2`

	cmdTag, err := tx.Exec(ctx, query, status, copyID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update copy status", "copy_id", copyID, "status", status, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Copy status update affected zero rows", "copy_id", copyID, "status", status)
		return fmt.Errorf("%w: copy status update affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}

func (r *LoanRepository) LockActiveLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID int64) (int64, error) {
	query := `
        SELECT copy_id
        FROM loans
        WHERE id = $1 AND return_date IS NULL
        FOR UPDATE`

	var copyID int64
	err := tx.QueryRow(ctx, query, loanID).Scan(&copyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "No active loan row to lock", "loan_id", loanID)
			return 0, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock active loan row", "loan_id", loanID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return copyID, nil
}

func (r *LoanRepository) MarkReturnedInTx(ctx context.Context, tx pgx.Tx, loanID int64) error {
	// The FOR UPDATE select already proved the row is active and holds
	// the lock, so the predicate here cannot miss.
	query := `UPDATE loans SET return_date = CURRENT_DATE WHERE id = $1 AND return_date IS NULL`

	cmdTag, err := tx.Exec(ctx, query, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to set return date", "loan_id", loanID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Return update affected zero rows", "loan_id", loanID)
		return fmt.Errorf("%w: return update affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}

func (r *LoanRepository) ExtendDueDateInTx(ctx context.Context, tx pgx.Tx, loanID int64) (int64, error) {
	query := `
        UPDATE loans
        SET due_date = loans.due_date + INTERVAL '14 days'
        FROM members
        WHERE loans.id = $1
          AND loans.member_id = members.id
          AND loans.return_date IS NULL
          AND loans.due_date >= CURRENT_DATE
          AND members.is_deleted = FALSE`

	cmdTag, err := tx.Exec(ctx, query, loanID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute renewal update", "loan_id", loanID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *LoanRepository) GetActiveLoans(ctx context.Context) ([]loan.ActiveLoan, error) {
	query := `
        SELECT loans.id, members.id, members.first_name || ' ' || members.last_name AS member_name,
               books.title, books.author, loans.loan_date, loans.due_date
        FROM loans
        INNER JOIN members ON loans.member_id = members.id
        INNER JOIN book_copies ON loans.copy_id = book_copies.id
        INNER JOIN books ON book_copies.book_id = books.id
        WHERE loans.return_date IS NULL
        ORDER BY loans.loan_date DESC`

	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		monitoring.RecordDBQuery("GetActiveLoans", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query active loans", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.ActiveLoan, 0)
	for rows.Next() {
		var l loan.ActiveLoan
		err := rows.Scan(&l.LoanID, &l.MemberID, &l.MemberName, &l.Title, &l.Author, &l.LoanDate, &l.DueDate)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan active loan row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}

	if err = rows.Err(); err != nil {
		status = "error"
		r.logger.ErrorContext(ctx, "Error iterating active loan rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	monitoring.RecordDBQuery("GetActiveLoans", status, time.Since(startTime))

	return loans, nil
}

func (r *LoanRepository) GetOverdueLoans(ctx context.Context) ([]loan.OverdueLoan, error) {
	query := `
        SELECT loans.id, members.id, members.first_name || ' ' || members.last_name AS member_name,
               books.title, books.author, loans.loan_date, loans.due_date,
               (CURRENT_DATE - loans.due_date) AS days_overdue
        FROM loans
        INNER JOIN members ON loans.member_id = members.id
        INNER JOIN book_copies ON loans.copy_id = book_copies.id
        INNER JOIN books ON book_copies.book_id = books.id
        WHERE loans.return_date IS NULL AND loans.due_date < CURRENT_DATE
        ORDER BY loans.due_date ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query overdue loans", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.OverdueLoan, 0)
	for rows.Next() {
		var l loan.OverdueLoan
		err := rows.Scan(&l.LoanID, &l.MemberID, &l.MemberName, &l.Title, &l.Author, &l.LoanDate, &l.DueDate, &l.DaysOverdue)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan overdue loan row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating overdue loan rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return loans, nil
}

func (r *LoanRepository) GetOverdueMembers(ctx context.Context) ([]loan.MemberOverdue, error) {
	query := `
        SELECT members.id, members.first_name || ' ' || members.last_name AS member_name,
               COUNT(loans.id) AS overdues
        FROM loans
        INNER JOIN members ON loans.member_id = members.id
        WHERE loans.return_date IS NULL AND loans.due_date < CURRENT_DATE
        GROUP BY members.id, member_name
        ORDER BY overdues DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query overdue members", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	members := make([]loan.MemberOverdue, 0)
	for rows.Next() {
		var m loan.MemberOverdue
		err := rows.Scan(&m.MemberID, &m.MemberName, &m.OverdueCount)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan overdue member row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		members = append(members, m)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating overdue member rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return members, nil
}

func (r *LoanRepository) GetHistoryByMember(ctx context.Context, memberID int64) ([]loan.HistoryEntry, error) {
	query := `
        SELECT loans.id, members.first_name || ' ' || members.last_name AS member_name,
               books.title, books.author, loans.loan_date, loans.due_date, loans.return_date
        FROM loans
        INNER JOIN members ON loans.member_id = members.id
        INNER JOIN book_copies ON loans.copy_id = book_copies.id
        INNER JOIN books ON book_copies.book_id = books.id
        WHERE members.id = $1
        ORDER BY loans.loan_date DESC`

	return r.queryHistory(ctx, query, memberID)
}

func (r *LoanRepository) GetHistoryByBook(ctx context.Context, bookID int64) ([]loan.HistoryEntry, error) {
	query := `
        SELECT loans.id, members.first_name || ' ' || members.last_name AS member_name,
               books.title, books.author, loans.loan_date, loans.due_date, loans.return_date
        FROM loans
        INNER JOIN members ON loans.member_id = members.id
        INNER JOIN book_copies ON loans.copy_id = book_copies.id
        INNER JOIN books ON book_copies.book_id = books.id
        WHERE books.id = $1
        ORDER BY loans.loan_date DESC`

	return r.queryHistory(ctx, query, bookID)
}

func (r *LoanRepository) queryHistory(ctx context.Context, query string, id int64) ([]loan.HistoryEntry, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loan history", "id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	history := make([]loan.HistoryEntry, 0)
	for rows.Next() {
		var h loan.HistoryEntry
		err := rows.Scan(&h.LoanID, &h.MemberName, &h.Title, &h.Author, &h.LoanDate, &h.DueDate, &h.ReturnDate)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan history row", "id", id, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		history = append(history, h)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan history rows", "id", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return history, nil
}

func (r *LoanRepository) MemberExists(ctx context.Context, memberID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, memberID).Scan(&exists)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check member existence", "member_id", memberID, "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *LoanRepository) BookExists(ctx context.Context, bookID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check book existence", "book_id", bookID, "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}

// translateDBError maps native PostgreSQL errors onto the application
// taxonomy in one place: unique violations become already-exists, foreign
// key violations become conflicts.
func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}
		if pgErr.Code == "23503" {
			contextLogger.Warn("Database foreign key violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
