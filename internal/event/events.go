package event

import (
	"context"
	"time"
)

type LoanCreatedEvent struct {
	LoanID    int64     `json:"loanId"`
	CopyID    int64     `json:"copyId"`
	MemberID  int64     `json:"memberId"`
	DueDate   time.Time `json:"dueDate"`
	Timestamp time.Time `json:"timestamp"`
}

type LoanReturnedEvent struct {
	LoanID    int64     `json:"loanId"`
	CopyID    int64     `json:"copyId"`
	Timestamp time.Time `json:"timestamp"`
}

type MemberDeactivatedEvent struct {
	MemberID  int64     `json:"memberId"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

type OverdueScanEvent struct {
	OverdueLoans   int       `json:"overdueLoans"`
	OverdueMembers int       `json:"overdueMembers"`
	Timestamp      time.Time `json:"timestamp"`
}

type Publisher interface {
	PublishLoanCreated(ctx context.Context, event LoanCreatedEvent) error
	PublishLoanReturned(ctx context.Context, event LoanReturnedEvent) error
	PublishMemberDeactivated(ctx context.Context, event MemberDeactivatedEvent) error
	PublishOverdueScan(ctx context.Context, event OverdueScanEvent) error
}

// NoopPublisher is used when event publishing is disabled in config.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) PublishLoanCreated(context.Context, LoanCreatedEvent) error { return nil }

func (NoopPublisher) PublishLoanReturned(context.Context, LoanReturnedEvent) error { return nil }

func (NoopPublisher) PublishMemberDeactivated(context.Context, MemberDeactivatedEvent) error {
	return nil
}

func (NoopPublisher) PublishOverdueScan(context.Context, OverdueScanEvent) error { return nil }
