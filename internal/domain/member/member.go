package member

import (
	"fmt"
	"strings"
	"time"

	"library-engine/internal/pkg/apperrors"
)

// Member is a borrower identity. Rows are never hard-deleted once loans
// exist; is_deleted marks deactivation and the email stays unique across
// active and deactivated rows, so re-registering the same email
// reactivates the original row instead of inserting a duplicate.
type Member struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	IsDeleted   bool
	JoinedAt    time.Time
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

func NewMember(firstName, lastName, email, phoneNumber string) (*Member, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)
	phoneNumber = strings.TrimSpace(phoneNumber)

	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", apperrors.ErrInvalidArgument)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrInvalidArgument)
	}
	if phoneNumber == "" {
		return nil, fmt.Errorf("%w: phone number is required", apperrors.ErrInvalidArgument)
	}

	return &Member{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		PhoneNumber: phoneNumber,
	}, nil
}

// MemberUpdate enumerates the only fields a client may change. Nil means
// "leave unchanged"; the SET clause is built from this whitelist alone,
// never from request-body keys.
type MemberUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
}

func (u *MemberUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil && u.PhoneNumber == nil
}

func (u *MemberUpdate) Validate() error {
	if u.IsEmpty() {
		return fmt.Errorf("%w: at least one updatable field is required", apperrors.ErrInvalidArgument)
	}
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) == "" {
		return apperrors.NewValidationError("first_name", "cannot be empty")
	}
	if u.LastName != nil && strings.TrimSpace(*u.LastName) == "" {
		return apperrors.NewValidationError("last_name", "cannot be empty")
	}
	if u.Email != nil && !strings.Contains(*u.Email, "@") {
		return apperrors.NewValidationError("email", "must be a valid email address")
	}
	if u.PhoneNumber != nil && strings.TrimSpace(*u.PhoneNumber) == "" {
		return apperrors.NewValidationError("phone_number", "cannot be empty")
	}
	return nil
}
