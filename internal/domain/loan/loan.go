package loan

import (
	"fmt"
	"time"

	"library-engine/internal/domain/book"
	"library-engine/internal/pkg/apperrors"
)

// LoanPeriodDays is the lending window: due_date = loan_date + 14 days,
// and a successful renewal extends due_date by exactly the same amount.
const LoanPeriodDays = 14

type Loan struct {
	ID         int64
	CopyID     int64
	MemberID   int64
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}

// NewLoan builds the row borrow inserts: loan_date = today,
// due_date = today + 14 days, return_date = NULL (active).
func NewLoan(copyID, memberID int64, today time.Time) (*Loan, error) {
	if copyID <= 0 {
		return nil, fmt.Errorf("%w: copy id must be positive", apperrors.ErrInvalidArgument)
	}
	if memberID <= 0 {
		return nil, fmt.Errorf("%w: member id must be positive", apperrors.ErrInvalidArgument)
	}
	if today.IsZero() {
		today = time.Now()
	}
	today = today.Truncate(24 * time.Hour)

	return &Loan{
		CopyID:   copyID,
		MemberID: memberID,
		LoanDate: today,
		DueDate:  today.AddDate(0, 0, LoanPeriodDays),
	}, nil
}

func (l *Loan) IsActive() bool {
	return l.ReturnDate == nil
}

func (l *Loan) IsOverdue(asOf time.Time) bool {
	return l.IsActive() && l.DueDate.Before(asOf.Truncate(24*time.Hour))
}

// LockedCopy is the snapshot of a copy row read under FOR UPDATE; holding
// it means no concurrent borrow/return can touch the same copy until the
// enclosing transaction ends.
type LockedCopy struct {
	ID     int64
	BookID int64
	Status book.CopyStatus
}

// Borrower is the member state borrow validates inside its transaction.
type Borrower struct {
	ID        int64
	IsDeleted bool
}

type ActiveLoan struct {
	LoanID     int64
	MemberID   int64
	MemberName string
	Title      string
	Author     string
	LoanDate   time.Time
	DueDate    time.Time
}

type OverdueLoan struct {
	LoanID      int64
	MemberID    int64
	MemberName  string
	Title       string
	Author      string
	LoanDate    time.Time
	DueDate     time.Time
	DaysOverdue int
}

type MemberOverdue struct {
	MemberID     int64
	MemberName   string
	OverdueCount int64
}

type HistoryEntry struct {
	LoanID     int64
	MemberName string
	Title      string
	Author     string
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}
