package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"library-engine/internal/domain/book"
	"library-engine/internal/infrastructure/monitoring"
	"library-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type BookRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ book.Repository = (*BookRepository)(nil)

func NewBookRepository(db DBPool, logger *slog.Logger) *BookRepository {
	if db == nil {
		panic("DBPool cannot be nil for BookRepository")
	}
	return &BookRepository{db: db, logger: logger.With("component", "BookRepository")}
}

func (r *BookRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrUnavailable, err)
	}
	return tx, nil
}

func (r *BookRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Commit(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *BookRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *BookRepository) CreateBook(ctx context.Context, b *book.Book, copies int) (*book.Book, error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.RollbackTx(ctx, tx)
	}()

	query := `
        INSERT INTO books (title, author, publication_year)
        VALUES ($1, $2, $3)
        RETURNING id, title, author, publication_year`

	var created book.Book
	err = tx.QueryRow(ctx, query, b.Title, b.Author, b.PublicationYear).Scan(
		&created.ID, &created.Title, &created.Author, &created.PublicationYear,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert book", "title", b.Title, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	// Copies are queued in one batch instead of a round trip per row.
	batch := &pgx.Batch{}
	copyQuery := `INSERT INTO book_copies (book_id, status) VALUES ($1, $2)`
	for i := 0; i < copies; i++ {
		batch.Queue(copyQuery, created.ID, book.CopyStatusAvailable)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < copies; i++ {
		if _, err = br.Exec(); err != nil {
			_ = br.Close()
			r.logger.ErrorContext(ctx, "Failed to insert book copy in batch", "book_id", created.ID, "error", err)
			return nil, translateDBError(err, r.logger)
		}
	}
	if err = br.Close(); err != nil {
		r.logger.ErrorContext(ctx, "Failed to close copy insert batch", "book_id", created.ID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	if err = r.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "Book created in DB", "book_id", created.ID, "copies", copies)
	return &created, nil
}

const bookWithAvailabilitySelect = `
        SELECT books.id, books.title, books.author, books.publication_year,
               COUNT(book_copies.id) AS total_copies,
               COUNT(book_copies.id) FILTER (WHERE book_copies.status = 'available') AS available_copies
        FROM books
        LEFT JOIN book_copies ON book_copies.book_id = books.id`

func (r *BookRepository) FindByID(ctx context.Context, bookID int64) (*book.BookWithAvailability, error) {
	query := bookWithAvailabilitySelect + `
        WHERE books.id = $1
        GROUP BY books.id`

	var b book.BookWithAvailability
	err := r.db.QueryRow(ctx, query, bookID).Scan(
		&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.TotalCopies, &b.AvailableCopies,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find book", "book_id", bookID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &b, nil
}

func (r *BookRepository) FindAll(ctx context.Context) ([]book.BookWithAvailability, error) {
	query := bookWithAvailabilitySelect + `
        GROUP BY books.id
        ORDER BY books.title`

	startTime := time.Now()
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		monitoring.RecordDBQuery("FindAllBooks", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query books", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	books, err := r.scanBooks(ctx, rows)
	if err != nil {
		monitoring.RecordDBQuery("FindAllBooks", "error", time.Since(startTime))
		return nil, err
	}
	monitoring.RecordDBQuery("FindAllBooks", "success", time.Since(startTime))
	return books, nil
}

func (r *BookRepository) Search(ctx context.Context, term string) ([]book.BookWithAvailability, error) {
	query := bookWithAvailabilitySelect + `
        WHERE books.title ILIKE '%' || $1 || '%' OR books.author ILIKE '%' || $1 || '%'
        GROUP BY books.id
        ORDER BY books.title`

	rows, err := r.db.Query(ctx, query, term)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to search books", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanBooks(ctx, rows)
}

func (r *BookRepository) UpdateFields(ctx context.Context, bookID int64, update book.BookUpdate) (int64, error) {
	setClauses := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if update.Title != nil {
		args = append(args, *update.Title)
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", len(args)))
	}
	if update.Author != nil {
		args = append(args, *update.Author)
		setClauses = append(setClauses, fmt.Sprintf("author = $%d", len(args)))
	}
	if update.PublicationYear != nil {
		args = append(args, *update.PublicationYear)
		setClauses = append(setClauses, fmt.Sprintf("publication_year = $%d", len(args)))
	}

	args = append(args, bookID)
	query := fmt.Sprintf("UPDATE books SET %s WHERE id = $%d", strings.Join(setClauses, ", "), len(args))

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update book fields", "book_id", bookID, "error", err)
		return 0, translateDBError(err, r.logger)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count books", "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *BookRepository) AddCopy(ctx context.Context, bookID int64) (*book.Copy, error) {
	// The INSERT ... SELECT keeps the existence check and the insert in
	// one statement, so a missing book id yields no row instead of a
	// foreign key violation.
	query := `
        INSERT INTO book_copies (book_id, status)
        SELECT id, 'available' FROM books WHERE id = $1
        RETURNING id, book_id, status`

	var c book.Copy
	err := r.db.QueryRow(ctx, query, bookID).Scan(&c.ID, &c.BookID, &c.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Cannot add copy to missing book", "book_id", bookID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to insert book copy", "book_id", bookID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Copy added in DB", "copy_id", c.ID, "book_id", bookID)
	return &c, nil
}

func (r *BookRepository) LockCopyForUpdate(ctx context.Context, tx pgx.Tx, copyID int64) (*book.Copy, error) {
	query := `
        SELECT id, book_id, status
        FROM book_copies
        WHERE id = $1
        FOR UPDATE`

	var c book.Copy
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

func (r *BookRepository) CountActiveLoansForCopyInTx(ctx context.Context, tx pgx.Tx, copyID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM loans WHERE copy_id = $1 AND return_date IS NULL`

	var count int64
	err := tx.QueryRow(ctx, query, copyID).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count active loans for copy", "copy_id", copyID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *BookRepository) DeleteCopyInTx(ctx context.Context, tx pgx.Tx, copyID int64) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM book_copies WHERE id = $1`, copyID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete copy", "copy_id", copyID, "error", err)
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Copy delete affected zero rows", "copy_id", copyID)
		return fmt.Errorf("%w: copy delete affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}

func (r *BookRepository) CountCopiesInTx(ctx context.Context, tx pgx.Tx, bookID int64) (int64, error) {
	var count int64
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM book_copies WHERE book_id = $1`, bookID).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count copies for book", "book_id", bookID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *BookRepository) DeleteBookInTx(ctx context.Context, tx pgx.Tx, bookID int64) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, bookID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete book", "book_id", bookID, "error", err)
		return translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Book delete affected zero rows", "book_id", bookID)
		return fmt.Errorf("%w: book delete affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}

func (r *BookRepository) scanBooks(ctx context.Context, rows pgx.Rows) ([]book.BookWithAvailability, error) {
	books := make([]book.BookWithAvailability, 0)
	for rows.Next() {
		var b book.BookWithAvailability
		err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.TotalCopies, &b.AvailableCopies)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan book row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating book rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return books, nil
}
