package member

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error

	// FindByEmailForUpdate locks the member row matching the email
	// case-insensitively, serializing concurrent registration attempts
	// for the same address.
	FindByEmailForUpdate(ctx context.Context, tx pgx.Tx, email string) (*Member, error)

	InsertInTx(ctx context.Context, tx pgx.Tx, m *Member) (*Member, error)

	// ReactivateInTx clears is_deleted and refreshes contact fields on a
	// previously deactivated row.
	ReactivateInTx(ctx context.Context, tx pgx.Tx, memberID int64, firstName, lastName, phoneNumber string) error

	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, memberID int64) (*Member, error)

	CountActiveLoansInTx(ctx context.Context, tx pgx.Tx, memberID int64) (int64, error)

	SetDeletedInTx(ctx context.Context, tx pgx.Tx, memberID int64) error

	// UpdateFields applies a whitelisted partial update to an active
	// member row and reports how many rows matched.
	UpdateFields(ctx context.Context, memberID int64, update MemberUpdate) (int64, error)

	FindByID(ctx context.Context, memberID int64) (*Member, error)

	FindAll(ctx context.Context) ([]Member, error)

	Search(ctx context.Context, term string) ([]Member, error)

	Count(ctx context.Context) (int64, error)
}
