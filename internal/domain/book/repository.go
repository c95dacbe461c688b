package book

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// CreateBook inserts the catalog row and its initial copies in one
	// transaction.
	CreateBook(ctx context.Context, b *Book, copies int) (*Book, error)

	FindByID(ctx context.Context, bookID int64) (*BookWithAvailability, error)

	FindAll(ctx context.Context) ([]BookWithAvailability, error)

	Search(ctx context.Context, term string) ([]BookWithAvailability, error)

	// UpdateFields applies a whitelisted partial update and reports how
	// many rows matched.
	UpdateFields(ctx context.Context, bookID int64, update BookUpdate) (int64, error)

	Count(ctx context.Context) (int64, error)

	// AddCopy inserts a new available copy; missing book ids surface as
	// not-found rather than a constraint violation.
	AddCopy(ctx context.Context, bookID int64) (*Copy, error)

	LockCopyForUpdate(ctx context.Context, tx pgx.Tx, copyID int64) (*Copy, error)

	CountActiveLoansForCopyInTx(ctx context.Context, tx pgx.Tx, copyID int64) (int64, error)

	DeleteCopyInTx(ctx context.Context, tx pgx.Tx, copyID int64) error

	CountCopiesInTx(ctx context.Context, tx pgx.Tx, bookID int64) (int64, error)

	DeleteBookInTx(ctx context.Context, tx pgx.Tx, bookID int64) error
}
