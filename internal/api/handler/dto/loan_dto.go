package dto

import (
	"time"

	"library-engine/internal/domain/loan"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var dateLayout = time.RFC3339[:10]

type BorrowRequest struct {
	CopyID   int64 `json:"copy_id"`
	MemberID int64 `json:"member_id"`
}

func (r BorrowRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CopyID, validation.Required.Error("copy_id is required"), validation.Min(1)),
		validation.Field(&r.MemberID, validation.Required.Error("member_id is required"), validation.Min(1)),
	)
}

type ReturnRequest struct {
	LoanID int64 `json:"loan_id"`
}

func (r ReturnRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LoanID, validation.Required.Error("loan_id is required"), validation.Min(1)),
	)
}

type RenewRequest struct {
	LoanID int64 `json:"loan_id"`
}

func (r RenewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.LoanID, validation.Required.Error("loan_id is required"), validation.Min(1)),
	)
}

type TokenRequest struct {
	Username string `json:"username"`
}

func (r TokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("username is required"), validation.Length(1, 64)),
	)
}

type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type BorrowResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LoanID  int64  `json:"loan_id"`
	CopyID  int64  `json:"copy_id"`
	DueDate string `json:"due_date"`
}

type ActiveLoanEntry struct {
	LoanID     int64  `json:"loan_id"`
	MemberID   int64  `json:"member_id"`
	MemberName string `json:"member_name"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	LoanDate   string `json:"loan_date"`
	DueDate    string `json:"due_date"`
}

type ActiveLoansResponse struct {
	Success     bool              `json:"success"`
	ActiveLoans []ActiveLoanEntry `json:"active_loans"`
}

type OverdueLoanEntry struct {
	LoanID      int64  `json:"loan_id"`
	MemberID    int64  `json:"member_id"`
	MemberName  string `json:"member_name"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	LoanDate    string `json:"loan_date"`
	DueDate     string `json:"due_date"`
	DaysOverdue int    `json:"days_overdue"`
}

// OverdueLoansResponse keeps the history key for overdue listings; clients
// already depend on this shape.
type OverdueLoansResponse struct {
	Success bool               `json:"success"`
	History []OverdueLoanEntry `json:"history"`
}

type MemberOverdueEntry struct {
	MemberID     int64  `json:"member_id"`
	MemberName   string `json:"member_name"`
	OverdueCount int64  `json:"overdue_count"`
}

type OverdueMembersResponse struct {
	Success bool                 `json:"success"`
	History []MemberOverdueEntry `json:"history"`
}

type HistoryEntryResponse struct {
	LoanID     int64   `json:"loan_id"`
	MemberName string  `json:"member_name"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	LoanDate   string  `json:"loan_date"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date"`
}

type HistoryResponse struct {
	Success bool                   `json:"success"`
	History []HistoryEntryResponse `json:"history"`
}

func NewActiveLoansResponse(loans []loan.ActiveLoan) ActiveLoansResponse {
	entries := make([]ActiveLoanEntry, len(loans))
	for i, l := range loans {
		entries[i] = ActiveLoanEntry{
			LoanID:     l.LoanID,
			MemberID:   l.MemberID,
			MemberName: l.MemberName,
			Title:      l.Title,
			Author:     l.Author,
			LoanDate:   l.LoanDate.Format(dateLayout),
			DueDate:    l.DueDate.Format(dateLayout),
		}
	}
	return ActiveLoansResponse{Success: true, ActiveLoans: entries}
}

func NewOverdueLoansResponse(loans []loan.OverdueLoan) OverdueLoansResponse {
	entries := make([]OverdueLoanEntry, len(loans))
	for i, l := range loans {
		entries[i] = OverdueLoanEntry{
			LoanID:      l.LoanID,
			MemberID:    l.MemberID,
			MemberName:  l.MemberName,
			Title:       l.Title,
			Author:      l.Author,
			LoanDate:    l.LoanDate.Format(dateLayout),
			DueDate:     l.DueDate.Format(dateLayout),
			DaysOverdue: l.DaysOverdue,
		}
	}
	return OverdueLoansResponse{Success: true, History: entries}
}

func NewOverdueMembersResponse(members []loan.MemberOverdue) OverdueMembersResponse {
	entries := make([]MemberOverdueEntry, len(members))
	for i, m := range members {
		entries[i] = MemberOverdueEntry{
			MemberID:     m.MemberID,
			MemberName:   m.MemberName,
			OverdueCount: m.OverdueCount,
		}
	}
	return OverdueMembersResponse{Success: true, History: entries}
}

func NewHistoryResponse(history []loan.HistoryEntry) HistoryResponse {
	entries := make([]HistoryEntryResponse, len(history))
	for i, h := range history {
		var returnDate *string
		if h.ReturnDate != nil {
			s := h.ReturnDate.Format(dateLayout)
			returnDate = &s
		}
		entries[i] = HistoryEntryResponse{
			LoanID:     h.LoanID,
			MemberName: h.MemberName,
			Title:      h.Title,
			Author:     h.Author,
			LoanDate:   h.LoanDate.Format(dateLayout),
			DueDate:    h.DueDate.Format(dateLayout),
			ReturnDate: returnDate,
		}
	}
	return HistoryResponse{Success: true, History: entries}
}
