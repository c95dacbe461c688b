package dto

import (
	"testing"
	"time"

	"library-engine/internal/domain/loan"

	"github.com/stretchr/testify/assert"
)

func TestBorrowRequestValidate(t *testing.T) {
	assert.NoError(t, BorrowRequest{CopyID: 42, MemberID: 5}.Validate())
	assert.Error(t, BorrowRequest{CopyID: 42}.Validate())
	assert.Error(t, BorrowRequest{MemberID: 5}.Validate())
	assert.Error(t, BorrowRequest{CopyID: -1, MemberID: 5}.Validate())
}

func TestReturnRequestValidate(t *testing.T) {
	assert.NoError(t, ReturnRequest{LoanID: 10}.Validate())
	assert.Error(t, ReturnRequest{}.Validate())
}

func TestNewHistoryResponse(t *testing.T) {
	loanDate := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	dueDate := loanDate.AddDate(0, 0, 14)
	returnDate := loanDate.AddDate(0, 0, 10)

	history := []loan.HistoryEntry{
		{LoanID: 1, MemberName: "Ada Lovelace", Title: "Dune", Author: "Frank Herbert", LoanDate: loanDate, DueDate: dueDate, ReturnDate: &returnDate},
		{LoanID: 2, MemberName: "Ada Lovelace", Title: "Dune", Author: "Frank Herbert", LoanDate: loanDate, DueDate: dueDate},
	}

	response := NewHistoryResponse(history)

	assert.True(t, response.Success)
	assert.Len(t, response.History, 2)
	assert.Equal(t, "2026-02-01", response.History[0].LoanDate)
	assert.Equal(t, "2026-02-15", response.History[0].DueDate)
	if assert.NotNil(t, response.History[0].ReturnDate) {
		assert.Equal(t, "2026-02-11", *response.History[0].ReturnDate)
	}
	assert.Nil(t, response.History[1].ReturnDate)
}

func TestNewOverdueLoansResponse(t *testing.T) {
	response := NewOverdueLoansResponse([]loan.OverdueLoan{{LoanID: 1, DaysOverdue: 12}})
	assert.True(t, response.Success)
	assert.Equal(t, 12, response.History[0].DaysOverdue)

	empty := NewOverdueLoansResponse(nil)
	assert.NotNil(t, empty.History)
	assert.Empty(t, empty.History)
}
