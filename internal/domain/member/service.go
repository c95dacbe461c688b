package member

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"library-engine/internal/event"
	"library-engine/internal/infrastructure/monitoring"
	"library-engine/internal/pkg/apperrors"
)

type MemberService interface {
	// Register creates a new member, or reactivates the existing row in
	// place when the email belongs to a deactivated member. The returned
	// flag reports which path was taken.
	Register(ctx context.Context, firstName, lastName, email, phoneNumber string) (m *Member, reactivated bool, err error)

	// Deactivate soft-deletes a member; it fails while the member still
	// holds any active loan.
	Deactivate(ctx context.Context, memberID int64) error

	Update(ctx context.Context, memberID int64, update MemberUpdate) error

	GetMember(ctx context.Context, memberID int64) (*Member, error)

	ListMembers(ctx context.Context) ([]Member, error)

	SearchMembers(ctx context.Context, term string) ([]Member, error)

	CountMembers(ctx context.Context) (int64, error)
}

type memberService struct {
	repo   Repository
	pub    event.Publisher
	logger *slog.Logger
}

var _ MemberService = (*memberService)(nil)

func NewMemberService(repo Repository, pub event.Publisher, logger *slog.Logger) MemberService {
	if repo == nil {
		panic("member repository cannot be nil")
	}
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &memberService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "memberService")),
	}
}

func (s *memberService) Register(ctx context.Context, firstName, lastName, email, phoneNumber string) (m *Member, reactivated bool, err error) {
	logCtx := s.logger.With(slog.String("email", email))
	logCtx.InfoContext(ctx, "Registration requested")

	candidate, err := NewMember(firstName, lastName, email, phoneNumber)
	if err != nil {
		return nil, false, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to begin registration transaction", slog.Any("error", err))
		return nil, false, err
	}

	defer func() {
		if p := recover(); p != nil {
			logCtx.ErrorContext(ctx, "Panic during registration, rolling back", slog.Any("panic", p))
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		}
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	existing, err := s.repo.FindByEmailForUpdate(ctx, tx, candidate.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	if existing != nil {
		if !existing.IsDeleted {
			logCtx.WarnContext(ctx, "Duplicate active member registration rejected", slog.Int64("memberID", existing.ID))
			err = fmt.Errorf("%w: a member with this email is already registered", apperrors.ErrConflict)
			return nil, false, err
		}

		// Reactivation path: the email stays bound to its original row.
		if err = s.repo.ReactivateInTx(ctx, tx, existing.ID, candidate.FirstName, candidate.LastName, candidate.PhoneNumber); err != nil {
			return nil, false, err
		}
		if err = s.repo.CommitTx(ctx, tx); err != nil {
			return nil, false, err
		}

		existing.FirstName = candidate.FirstName
		existing.LastName = candidate.LastName
		existing.PhoneNumber = candidate.PhoneNumber
		existing.IsDeleted = false

		monitoring.Business.MembersReactivated.Inc()
		logCtx.InfoContext(ctx, "Member reactivated", slog.Int64("memberID", existing.ID))
		return existing, true, nil
	}

	created, err := s.repo.InsertInTx(ctx, tx, candidate)
	if err != nil {
		return nil, false, err
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, false, err
	}

	monitoring.Business.MembersRegistered.Inc()
	logCtx.InfoContext(ctx, "Member created", slog.Int64("memberID", created.ID))
	return created, false, nil
}

func (s *memberService) Deactivate(ctx context.Context, memberID int64) (err error) {
	logCtx := s.logger.With(slog.Int64("memberID", memberID))
	logCtx.InfoContext(ctx, "Deactivation requested")

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to begin deactivation transaction", slog.Any("error", err))
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			logCtx.ErrorContext(ctx, "Panic during deactivation, rolling back", slog.Any("panic", p))
			_ = s.repo.RollbackTx(ctx, tx)
			panic(p)
		}
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	m, err := s.repo.FindByIDForUpdate(ctx, tx, memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Member not found for deactivation")
		}
		return err
	}
	if m.IsDeleted {
		logCtx.WarnContext(ctx, "Member already deactivated")
		return fmt.Errorf("%w: member %d is already deactivated", apperrors.ErrValidation, memberID)
	}

	activeLoans, err := s.repo.CountActiveLoansInTx(ctx, tx, memberID)
	if err != nil {
		return err
	}
	if activeLoans > 0 {
		logCtx.WarnContext(ctx, "Deactivation blocked by active loans", slog.Int64("activeLoans", activeLoans))
		return fmt.Errorf("%w: member %d still holds %d active loan(s)", apperrors.ErrConflict, memberID, activeLoans)
	}

	if err = s.repo.SetDeletedInTx(ctx, tx, memberID); err != nil {
		return err
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return err
	}

	monitoring.Business.MembersDeactivated.Inc()
	logCtx.InfoContext(ctx, "Member deactivated")

	if pubErr := s.pub.PublishMemberDeactivated(ctx, event.MemberDeactivatedEvent{
		MemberID:  memberID,
		Email:     m.Email,
		Timestamp: time.Now(),
	}); pubErr != nil {
		logCtx.ErrorContext(ctx, "Member deactivated, but failed to publish event", slog.Any("error", pubErr))
	}

	return nil
}

func (s *memberService) Update(ctx context.Context, memberID int64, update MemberUpdate) error {
	logCtx := s.logger.With(slog.Int64("memberID", memberID))
	logCtx.InfoContext(ctx, "Member update requested")

	if err := update.Validate(); err != nil {
		logCtx.WarnContext(ctx, "Member update validation failed", slog.Any("error", err))
		return err
	}

	rows, err := s.repo.UpdateFields(ctx, memberID, update)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Member update rejected by unique email constraint")
			return fmt.Errorf("%w: this email is already registered to another member", apperrors.ErrConflict)
		}
		logCtx.ErrorContext(ctx, "Failed to update member", slog.Any("error", err))
		return err
	}
	if rows == 0 {
		logCtx.WarnContext(ctx, "Member update matched no active row")
		return fmt.Errorf("%w: member %d does not exist or is deactivated", apperrors.ErrNotFound, memberID)
	}

	logCtx.InfoContext(ctx, "Member updated successfully")
	return nil
}

func (s *memberService) GetMember(ctx context.Context, memberID int64) (*Member, error) {
	m, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Member not found", slog.Int64("memberID", memberID))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Failed to get member", slog.Int64("memberID", memberID), slog.Any("error", err))
		return nil, err
	}
	return m, nil
}

func (s *memberService) ListMembers(ctx context.Context) ([]Member, error) {
	members, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list members", slog.Any("error", err))
		return nil, err
	}
	return members, nil
}

func (s *memberService) SearchMembers(ctx context.Context, term string) ([]Member, error) {
	members, err := s.repo.Search(ctx, term)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to search members", slog.String("term", term), slog.Any("error", err))
		return nil, err
	}
	return members, nil
}

func (s *memberService) CountMembers(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to count members", slog.Any("error", err))
		return 0, err
	}
	return count, nil
}
