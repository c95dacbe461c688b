package dto

import (
	"library-engine/internal/domain/member"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type RegisterMemberRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func (r RegisterMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required.Error("first_name is required"), validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required.Error("last_name is required"), validation.Length(1, 100)),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(3, 255),
		),
		validation.Field(&r.PhoneNumber, validation.Required.Error("phone_number is required"), validation.Length(3, 32)),
	)
}

type UpdateMemberRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
}

func (r UpdateMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.NilOrNotEmpty.Error("first_name cannot be empty"), validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.NilOrNotEmpty.Error("last_name cannot be empty"), validation.Length(1, 100)),
		validation.Field(&r.Email, validation.NilOrNotEmpty.Error("email cannot be empty"), is.Email.Error("invalid email format")),
		validation.Field(&r.PhoneNumber, validation.NilOrNotEmpty.Error("phone_number cannot be empty"), validation.Length(3, 32)),
	)
}

// ToUpdate narrows the request onto the whitelisted field set; anything a
// client sends outside these four keys never reaches the database.
func (r UpdateMemberRequest) ToUpdate() member.MemberUpdate {
	return member.MemberUpdate{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

type RegisterMemberResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	MemberID    int64  `json:"member_id"`
	Reactivated bool   `json:"reactivated"`
}

type MemberResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	JoinedAt    string `json:"joined_at"`
}

type MemberDetailResponse struct {
	Success bool           `json:"success"`
	Member  MemberResponse `json:"member"`
}

type MembersResponse struct {
	Success bool             `json:"success"`
	Members []MemberResponse `json:"members"`
}

type MemberStatsResponse struct {
	Success bool  `json:"success"`
	Total   int64 `json:"total"`
}

func NewMemberResponse(m *member.Member) MemberResponse {
	return MemberResponse{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		JoinedAt:    m.JoinedAt.Format(dateLayout),
	}
}

func NewMembersResponse(members []member.Member) MembersResponse {
	entries := make([]MemberResponse, len(members))
	for i := range members {
		entries[i] = NewMemberResponse(&members[i])
	}
	return MembersResponse{Success: true, Members: entries}
}
