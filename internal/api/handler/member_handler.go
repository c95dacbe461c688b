package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"library-engine/internal/api/handler/dto"
	"library-engine/internal/domain/member"
	"library-engine/internal/pkg/apperrors"
)

type MemberHandler struct {
	service member.MemberService
	logger  *slog.Logger
}

func NewMemberHandler(s member.MemberService, l *slog.Logger) *MemberHandler {
	return &MemberHandler{
		service: s,
		logger:  l.With("component", "MemberHandler"),
	}
}

// Register creates a member, or reactivates a previously deactivated one
// when the same email is registered again.
//
// @Summary Register a member
// @Description Registers a new member. If a deactivated member already holds the email, that member is reactivated with the submitted contact details and its original id is returned.
// @Tags Members
// @Accept json
// @Produce json
// @Param request body dto.RegisterMemberRequest true "Registration payload"
// @Success 201 {object} dto.RegisterMemberResponse "Member created"
// @Success 200 {object} dto.RegisterMemberResponse "Member reactivated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Email already registered to an active member"
// @Router /members [post]
// @Security BearerAuth
func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	m, reactivated, err := h.service.Register(r.Context(), req.FirstName, req.LastName, req.Email, req.PhoneNumber)
	if err != nil {
		respondError(w, err)
		return
	}

	status, message := http.StatusCreated, "Member registered successfully"
	if reactivated {
		status, message = http.StatusOK, "Member reactivated successfully"
	}
	respondJSON(w, status, dto.RegisterMemberResponse{
		Success:     true,
		Message:     message,
		MemberID:    m.ID,
		Reactivated: reactivated,
	})
}

// List returns all active members.
//
// @Summary List members
// @Tags Members
// @Produce json
// @Success 200 {object} dto.MembersResponse "Active members"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /members [get]
// @Security BearerAuth
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewMembersResponse(members))
}

// Search finds active members by name or email substring.
//
// @Summary Search members
// @Tags Members
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} dto.MembersResponse "Matching members"
// @Failure 400 {object} dto.ErrorResponse "Missing search term"
// @Router /members/search [get]
// @Security BearerAuth
func (h *MemberHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		respondError(w, fmt.Errorf("%w: query parameter q is required", apperrors.ErrInvalidArgument))
		return
	}

	members, err := h.service.SearchMembers(r.Context(), term)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewMembersResponse(members))
}

// Stats reports the active member count.
//
// @Summary Member statistics
// @Tags Members
// @Produce json
// @Success 200 {object} dto.MemberStatsResponse "Member count"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /members/stats [get]
// @Security BearerAuth
func (h *MemberHandler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.CountMembers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.MemberStatsResponse{Success: true, Total: total})
}

// Get returns one active member by id.
//
// @Summary Get a member
// @Tags Members
// @Produce json
// @Param memberID path int true "Member ID"
// @Success 200 {object} dto.MemberDetailResponse "Member details"
// @Failure 400 {object} dto.ErrorResponse "Invalid member ID"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /members/{memberID} [get]
// @Security BearerAuth
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	m, err := h.service.GetMember(r.Context(), memberID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.MemberDetailResponse{Success: true, Member: dto.NewMemberResponse(m)})
}

// Update applies a partial update to a member's contact fields.
//
// @Summary Update a member
// @Description Updates any subset of first_name, last_name, email and phone_number on an active member.
// @Tags Members
// @Accept json
// @Produce json
// @Param memberID path int true "Member ID"
// @Param request body dto.UpdateMemberRequest true "Fields to update"
// @Success 200 {object} dto.MessageResponse "Member updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.ErrorResponse "Member not found or deactivated"
// @Failure 409 {object} dto.ErrorResponse "Email already in use"
// @Router /members/{memberID} [put]
// @Security BearerAuth
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.UpdateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.Update(r.Context(), memberID, req.ToUpdate()); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Member updated successfully"})
}

// Deactivate soft-deletes a member with no active loans.
//
// @Summary Deactivate a member
// @Description Marks the member deleted. Blocked while the member still holds active loans; the loan history is preserved.
// @Tags Members
// @Produce json
// @Param memberID path int true "Member ID"
// @Success 200 {object} dto.MessageResponse "Member deactivated"
// @Failure 400 {object} dto.ErrorResponse "Member already deactivated"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Failure 409 {object} dto.ErrorResponse "Member still holds active loans"
// @Router /members/{memberID} [delete]
// @Security BearerAuth
func (h *MemberHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.Deactivate(r.Context(), memberID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Member deactivated successfully"})
}
