package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"library-engine/internal/pkg/apperrors"
)

type BookService interface {
	CreateBook(ctx context.Context, title, author string, publicationYear, copies int) (*Book, error)

	GetBook(ctx context.Context, bookID int64) (*BookWithAvailability, error)

	ListBooks(ctx context.Context) ([]BookWithAvailability, error)

	SearchBooks(ctx context.Context, term string) ([]BookWithAvailability, error)

	UpdateBook(ctx context.Context, bookID int64, update BookUpdate) error

	CountBooks(ctx context.Context) (int64, error)

	AddCopy(ctx context.Context, bookID int64) (*Copy, error)

	// DeleteCopy removes a physical copy. Deletion is blocked while the
	// copy is loaned. When the last copy goes away and cascade is set,
	// the book's catalog entry is removed in the same transaction; the
	// returned flag reports whether that happened.
	DeleteCopy(ctx context.Context, copyID int64, cascade bool) (bookDeleted bool, err error)
}

type bookService struct {
	repo   Repository
	logger *slog.Logger
}

var _ BookService = (*bookService)(nil)

func NewBookService(repo Repository, logger *slog.Logger) BookService {
	if repo == nil {
		panic("book repository cannot be nil")
	}
	return &bookService{
		repo:   repo,
		logger: logger.With(slog.String("component", "bookService")),
	}
}

func (s *bookService) CreateBook(ctx context.Context, title, author string, publicationYear, copies int) (*Book, error) {
	s.logger.InfoContext(ctx, "Creating book", slog.String("title", title))

	b, err := NewBook(title, author, publicationYear)
	if err != nil {
		return nil, err
	}
	if copies < 1 {
		copies = 1
	}

	created, err := s.repo.CreateBook(ctx, b, copies)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create book", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Book created", slog.Int64("bookID", created.ID), slog.Int("copies", copies))
	return created, nil
}

func (s *bookService) GetBook(ctx context.Context, bookID int64) (*BookWithAvailability, error) {
	b, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Book not found", slog.Int64("bookID", bookID))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Failed to get book", slog.Int64("bookID", bookID), slog.Any("error", err))
		return nil, err
	}
	return b, nil
}

func (s *bookService) ListBooks(ctx context.Context) ([]BookWithAvailability, error) {
	books, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list books", slog.Any("error", err))
		return nil, err
	}
	return books, nil
}

func (s *bookService) SearchBooks(ctx context.Context, term string) ([]BookWithAvailability, error) {
	books, err := s.repo.Search(ctx, term)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to search books", slog.String("term", term), slog.Any("error", err))
		return nil, err
	}
	return books, nil
}

func (s *bookService) UpdateBook(ctx context.Context, bookID int64, update BookUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	rows, err := s.repo.UpdateFields(ctx, bookID, update)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update book", slog.Int64("bookID", bookID), slog.Any("error", err))
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: book %d does not exist", apperrors.ErrNotFound, bookID)
	}

	s.logger.InfoContext(ctx, "Book updated", slog.Int64("bookID", bookID))
	return nil
}

func (s *bookService) CountBooks(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to count books", slog.Any("error", err))
		return 0, err
	}
	return count, nil
}

func (s *bookService) AddCopy(ctx context.Context, bookID int64) (*Copy, error) {
	c, err := s.repo.AddCopy(ctx, bookID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Cannot add copy to unknown book", slog.Int64("bookID", bookID))
			return nil, fmt.Errorf("%w: book %d does not exist", apperrors.ErrNotFound, bookID)
		}
		s.logger.ErrorContext(ctx, "Failed to add copy", slog.Int64("bookID", bookID), slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Copy added", slog.Int64("bookID", bookID), slog.Int64("copyID", c.ID))
	return c, nil
}

func (s *bookService) DeleteCopy(ctx context.Context, copyID int64, cascade bool) (bookDeleted bool, err error) {
	logCtx := s.logger.With(slog.Int64("copyID", copyID))
	logCtx.InfoContext(ctx, "Copy deletion requested", slog.Bool("cascade", cascade))

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to begin copy deletion transaction", slog.Any("error", err))
		return false, err
	}

	defer func() {
		if p := recover(); p != nil {
			logCtx.ErrorContext(ctx, "Panic during copy deletion, rolling back", slog.Any("panic", p))
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		}
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	c, err := s.repo.LockCopyForUpdate(ctx, tx, copyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Copy not found for deletion")
			return false, fmt.Errorf("%w: copy %d does not exist", apperrors.ErrNotFound, copyID)
		}
		return false, err
	}

	if c.Status == CopyStatusLoaned {
		logCtx.WarnContext(ctx, "Copy deletion blocked: copy is loaned")
		return false, fmt.Errorf("%w: copy %d is currently loaned", apperrors.ErrConflict, copyID)
	}

	// The status column should already reflect this, but a dangling
	// active loan must never be orphaned by a copy delete.
	activeLoans, err := s.repo.CountActiveLoansForCopyInTx(ctx, tx, copyID)
	if err != nil {
		return false, err
	}
	if activeLoans > 0 {
		logCtx.WarnContext(ctx, "Copy deletion blocked by active loan records", slog.Int64("activeLoans", activeLoans))
		return false, fmt.Errorf("%w: copy %d is referenced by an active loan", apperrors.ErrConflict, copyID)
	}

	if err = s.repo.DeleteCopyInTx(ctx, tx, copyID); err != nil {
		return false, err
	}

	remaining, err := s.repo.CountCopiesInTx(ctx, tx, c.BookID)
	if err != nil {
		return false, err
	}

	if remaining == 0 && cascade {
		if err = s.repo.DeleteBookInTx(ctx, tx, c.BookID); err != nil {
			return false, err
		}
		bookDeleted = true
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return false, err
	}

	logCtx.InfoContext(ctx, "Copy deleted", slog.Int64("bookID", c.BookID), slog.Bool("bookDeleted", bookDeleted))
	return bookDeleted, nil
}
