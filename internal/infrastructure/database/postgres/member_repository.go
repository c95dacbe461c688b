package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"library-engine/internal/domain/member"
	"library-engine/internal/infrastructure/monitoring"
	"library-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type MemberRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ member.Repository = (*MemberRepository)(nil)

func NewMemberRepository(db DBPool, logger *slog.Logger) *MemberRepository {
	if db == nil {
		panic("DBPool cannot be nil for MemberRepository")
	}
	return &MemberRepository{db: db, logger: logger.With("component", "MemberRepository")}
}

func (r *MemberRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrUnavailable, err)
	}
	return tx, nil
}

func (r *MemberRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Commit(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *MemberRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	err := tx.Rollback(ctx)

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *MemberRepository) FindByEmailForUpdate(ctx context.Context, tx pgx.Tx, email string) (*member.Member, error) {
	query := `
        SELECT id, first_name, last_name, email, phone_number, is_deleted, joined_at
        FROM members
        WHERE lower(email) = lower($1)
        FOR UPDATE`

	var m member.Member
	err := tx.QueryRow(ctx, query, email).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PhoneNumber, &m.IsDeleted, &m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock member row by email", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &m, nil
}

func (r *MemberRepository) InsertInTx(ctx context.Context, tx pgx.Tx, m *member.Member) (*member.Member, error) {
	query := `
        INSERT INTO members (first_name, last_name, email, phone_number, is_deleted, joined_at)
        VALUES ($1, $2, $3, $4, FALSE, NOW())
        RETURNING id, first_name, last_name, email, phone_number, is_deleted, joined_at`

	var created member.Member
	err := tx.QueryRow(ctx, query, m.FirstName, m.LastName, m.Email, m.PhoneNumber).Scan(
		&created.ID, &created.FirstName, &created.LastName, &created.Email,
		&created.PhoneNumber, &created.IsDeleted, &created.JoinedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert member", "email_domain", emailDomain(m.Email), "error", err)
		return nil, translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Member created in DB", "member_id", created.ID)
	return &created, nil
}

func (r *MemberRepository) ReactivateInTx(ctx context.Context, tx pgx.Tx, memberID int64, firstName, lastName, phoneNumber string) error {
	query := `
        UPDATE members
        SET is_deleted = FALSE, first_name = $1, last_name = $2, phone_number = $3
        WHERE id = $4`

	cmdTag, err := tx.Exec(ctx, query, firstName, lastName, phoneNumber, memberID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to reactivate member", "member_id", memberID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Reactivation affected zero rows", "member_id", memberID)
		return fmt.Errorf("%w: reactivation affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}

func (r *MemberRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, memberID int64) (*member.Member, error) {
	query := `
        SELECT id, first_name, last_name, email, phone_number, is_deleted, joined_at
        FROM members
        WHERE id = $1
        FOR UPDATE`

	var m member.Member
	err := tx.QueryRow(ctx, query, memberID).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PhoneNumber, &m.IsDeleted, &m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Member not found while locking", "member_id", memberID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock member row", "member_id", memberID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &m, nil
}

func (r *MemberRepository) CountActiveLoansInTx(ctx context.Context, tx pgx.Tx, memberID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM loans WHERE member_id = $1 AND return_date IS NULL`

	var count int64
	err := tx.QueryRow(ctx, query, memberID).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count active loans for member", "member_id", memberID, "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *MemberRepository) SetDeletedInTx(ctx context.Context, tx pgx.Tx, memberID int64) error {
	query := `UPDATE members SET is_deleted = TRUE WHERE id = $1`

	cmdTag, err := tx.Exec(ctx, query, memberID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to soft-delete member", "member_id", memberID, "error", err)
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Soft-delete affected zero rows", "member_id", memberID)
		return fmt.Errorf("%w: soft-delete affected zero rows", apperrors.ErrDatabase)
	}
	return nil
}

func (r *MemberRepository) UpdateFields(ctx context.Context, memberID int64, update member.MemberUpdate) (int64, error) {
	setClauses := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if update.FirstName != nil {
		args = append(args, *update.FirstName)
		setClauses = append(setClauses, fmt.Sprintf("first_name = $%d", len(args)))
	}
	if update.LastName != nil {
		args = append(args, *update.LastName)
		setClauses = append(setClauses, fmt.Sprintf("last_name = $%d", len(args)))
	}
	if update.Email != nil {
		args = append(args, *update.Email)
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", len(args)))
	}
	if update.PhoneNumber != nil {
		args = append(args, *update.PhoneNumber)
		setClauses = append(setClauses, fmt.Sprintf("phone_number = $%d", len(args)))
	}

	args = append(args, memberID)
	query := fmt.Sprintf(
		"UPDATE members SET %s WHERE id = $%d AND is_deleted = FALSE",
		strings.Join(setClauses, ", "), len(args),
	)

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update member fields", "member_id", memberID, "error", err)
		return 0, translateDBError(err, r.logger)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *MemberRepository) FindByID(ctx context.Context, memberID int64) (*member.Member, error) {
	query := `
        SELECT id, first_name, last_name, email, phone_number, is_deleted, joined_at
        FROM members
        WHERE id = $1 AND is_deleted = FALSE`

	var m member.Member
	err := r.db.QueryRow(ctx, query, memberID).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PhoneNumber, &m.IsDeleted, &m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find member", "member_id", memberID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &m, nil
}

func (r *MemberRepository) FindAll(ctx context.Context) ([]member.Member, error) {
	query := `
        SELECT id, first_name, last_name, email, phone_number, is_deleted, joined_at
        FROM members
        WHERE is_deleted = FALSE
        ORDER BY last_name, first_name`

	startTime := time.Now()
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		monitoring.RecordDBQuery("FindAllMembers", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query members", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	members, err := r.scanMembers(ctx, rows)
	if err != nil {
		monitoring.RecordDBQuery("FindAllMembers", "error", time.Since(startTime))
		return nil, err
	}
	monitoring.RecordDBQuery("FindAllMembers", "success", time.Since(startTime))
	return members, nil
}

func (r *MemberRepository) Search(ctx context.Context, term string) ([]member.Member, error) {
	query := `
        SELECT id, first_name, last_name, email, phone_number, is_deleted, joined_at
        FROM members
        WHERE is_deleted = FALSE
          AND (first_name ILIKE '%' || $1 || '%'
            OR last_name ILIKE '%' || $1 || '%'
            OR email ILIKE '%' || $1 || '%')
        ORDER BY last_name, first_name`

	rows, err := r.db.Query(ctx, query, term)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to search members", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	return r.scanMembers(ctx, rows)
}

func (r *MemberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE is_deleted = FALSE`).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count members", "error", err)
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return count, nil
}

func (r *MemberRepository) scanMembers(ctx context.Context, rows pgx.Rows) ([]member.Member, error) {
	members := make([]member.Member, 0)
	for rows.Next() {
		var m member.Member
		err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PhoneNumber, &m.IsDeleted, &m.JoinedAt)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan member row", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating member rows", "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return members, nil
}

// emailDomain keeps addresses out of logs while still leaving a hint
// for debugging duplicate registrations.
func emailDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return email[i+1:]
	}
	return ""
}
