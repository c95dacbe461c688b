package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"library-engine/internal/api/handler/dto"
	"library-engine/internal/domain/loan"
	"library-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

// productionMode hides internal failure detail from API clients. Toggled
// once at startup before the router starts serving.
var productionMode bool

func SetProductionMode(enabled bool) {
	productionMode = enabled
}

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"success":false,"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message := http.StatusInternalServerError, "An unexpected error occurred."
	var validationError *apperrors.ValidationError

	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &validationError):
		status, message = http.StatusBadRequest, validationError.Message
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized."
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrUnavailable):
		status, message = http.StatusServiceUnavailable, "Service temporarily unavailable."
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	if !productionMode && status >= http.StatusInternalServerError {
		message = err.Error()
	}

	respondJSON(w, status, dto.ErrorResponse{Success: false, Message: message})
}

func getIDFromURL(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	if idStr == "" {
		return 0, fmt.Errorf("%s not found in URL path", param)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// Borrow lends an available copy to a member.
//
// @Summary Borrow a book copy
// @Description Creates a loan for the given copy and member. The copy row is locked for the duration of the transaction, so two concurrent borrows of the same copy cannot both succeed.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.BorrowRequest true "Borrow request payload"
// @Success 201 {object} dto.BorrowResponse "Loan successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 403 {object} dto.ErrorResponse "Member is deactivated"
// @Failure 404 {object} dto.ErrorResponse "Copy or member not found"
// @Failure 409 {object} dto.ErrorResponse "Copy is not available"
// @Failure 503 {object} dto.ErrorResponse "No database connection available"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req dto.BorrowRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	createdLoan, err := h.service.Borrow(r.Context(), req.CopyID, req.MemberID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.BorrowResponse{
		Success: true,
		Message: "Book borrowed successfully",
		LoanID:  createdLoan.ID,
		CopyID:  createdLoan.CopyID,
		DueDate: createdLoan.DueDate.Format("2006-01-02"),
	})
}

// Return closes an active loan and frees its copy.
//
// @Summary Return a borrowed copy
// @Description Sets the return date on the active loan and marks its copy available again. Returning a loan twice yields a conflict.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.ReturnRequest true "Return request payload"
// @Success 200 {object} dto.MessageResponse "Loan successfully returned"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "No active loan with this id"
// @Failure 503 {object} dto.ErrorResponse "No database connection available"
// @Router /loans/return [put]
// @Security BearerAuth
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req dto.ReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.Return(r.Context(), req.LoanID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Book returned successfully"})
}

// Renew extends an active loan by another lending period.
//
// @Summary Renew an active loan
// @Description Extends the due date by 14 days when the loan is active, not past due, and the member is not deactivated.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.RenewRequest true "Renew request payload"
// @Success 200 {object} dto.MessageResponse "Loan successfully renewed"
// @Failure 400 {object} dto.ErrorResponse "Loan is not renewable"
// @Failure 503 {object} dto.ErrorResponse "No database connection available"
// @Router /loans/renewal [put]
// @Security BearerAuth
func (h *LoanHandler) Renew(w http.ResponseWriter, r *http.Request) {
	var req dto.RenewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if err := h.service.Renew(r.Context(), req.LoanID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Loan renewed for 14 more days"})
}

// ActiveLoans lists all loans that have not been returned yet.
//
// @Summary List active loans
// @Tags Loans
// @Produce json
// @Success 200 {object} dto.ActiveLoansResponse "Active loans"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/active [get]
// @Security BearerAuth
func (h *LoanHandler) ActiveLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ActiveLoans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewActiveLoansResponse(loans))
}

// OverdueLoans lists active loans past their due date.
//
// @Summary List overdue loans
// @Tags Loans
// @Produce json
// @Success 200 {object} dto.OverdueLoansResponse "Overdue loans with days overdue"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/overdue [get]
// @Security BearerAuth
func (h *LoanHandler) OverdueLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.OverdueLoans(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewOverdueLoansResponse(loans))
}

// OverdueMembers aggregates the overdue loan count per member.
//
// @Summary List members with overdue loans
// @Tags Loans
// @Produce json
// @Success 200 {object} dto.OverdueMembersResponse "Overdue count per member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/overdue/members [get]
// @Security BearerAuth
func (h *LoanHandler) OverdueMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.OverdueMembers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewOverdueMembersResponse(members))
}

// HistoryByMember lists every loan a member ever took, returned or not.
//
// @Summary Loan history for a member
// @Tags Loans
// @Produce json
// @Param memberID path int true "Member ID"
// @Success 200 {object} dto.HistoryResponse "Loan history"
// @Failure 400 {object} dto.ErrorResponse "Invalid member ID"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /loans/history/member/{memberID} [get]
// @Security BearerAuth
func (h *LoanHandler) HistoryByMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := getIDFromURL(r, "memberID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	history, err := h.service.HistoryByMember(r.Context(), memberID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewHistoryResponse(history))
}

// HistoryByBook lists every loan ever taken on any copy of a book.
//
// @Summary Loan history for a book
// @Tags Loans
// @Produce json
// @Param bookID path int true "Book ID"
// @Success 200 {object} dto.HistoryResponse "Loan history"
// @Failure 400 {object} dto.ErrorResponse "Invalid book ID"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Router /loans/history/book/{bookID} [get]
// @Security BearerAuth
func (h *LoanHandler) HistoryByBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := getIDFromURL(r, "bookID")
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	history, err := h.service.HistoryByBook(r.Context(), bookID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewHistoryResponse(history))
}
