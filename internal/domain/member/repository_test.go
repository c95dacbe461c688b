package member

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// StubTx satisfies pgx.Tx for service tests. The service only threads the
// transaction between repository calls, so none of the embedded methods
// are ever invoked.
type StubTx struct {
	pgx.Tx
}

// MockMemberRepository is a testify mock of Repository, shared with the
// external service tests.
type MockMemberRepository struct {
	mock.Mock
}

func (_m *MockMemberRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var tx pgx.Tx
	if ret.Get(0) != nil {
		tx = ret.Get(0).(pgx.Tx)
	}
	return tx, ret.Error(1)
}

func (_m *MockMemberRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockMemberRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockMemberRepository) FindByEmailForUpdate(ctx context.Context, tx pgx.Tx, email string) (*Member, error) {
	ret := _m.Called(ctx, tx, email)

	var m *Member
	if ret.Get(0) != nil {
		m = ret.Get(0).(*Member)
	}
	return m, ret.Error(1)
}

func (_m *MockMemberRepository) InsertInTx(ctx context.Context, tx pgx.Tx, m *Member) (*Member, error) {
	ret := _m.Called(ctx, tx, m)

	var created *Member
	if ret.Get(0) != nil {
		created = ret.Get(0).(*Member)
	}
	return created, ret.Error(1)
}

func (_m *MockMemberRepository) ReactivateInTx(ctx context.Context, tx pgx.Tx, memberID int64, firstName, lastName, phoneNumber string) error {
	ret := _m.Called(ctx, tx, memberID, firstName, lastName, phoneNumber)
	return ret.Error(0)
}

func (_m *MockMemberRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, memberID int64) (*Member, error) {
	ret := _m.Called(ctx, tx, memberID)

	var m *Member
	if ret.Get(0) != nil {
		m = ret.Get(0).(*Member)
	}
	return m, ret.Error(1)
}

func (_m *MockMemberRepository) CountActiveLoansInTx(ctx context.Context, tx pgx.Tx, memberID int64) (int64, error) {
	ret := _m.Called(ctx, tx, memberID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockMemberRepository) SetDeletedInTx(ctx context.Context, tx pgx.Tx, memberID int64) error {
	ret := _m.Called(ctx, tx, memberID)
	return ret.Error(0)
}

func (_m *MockMemberRepository) UpdateFields(ctx context.Context, memberID int64, update MemberUpdate) (int64, error) {
	ret := _m.Called(ctx, memberID, update)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockMemberRepository) FindByID(ctx context.Context, memberID int64) (*Member, error) {
	ret := _m.Called(ctx, memberID)

	var m *Member
	if ret.Get(0) != nil {
		m = ret.Get(0).(*Member)
	}
	return m, ret.Error(1)
}

func (_m *MockMemberRepository) FindAll(ctx context.Context) ([]Member, error) {
	ret := _m.Called(ctx)

	var members []Member
	if ret.Get(0) != nil {
		members = ret.Get(0).([]Member)
	}
	return members, ret.Error(1)
}

func (_m *MockMemberRepository) Search(ctx context.Context, term string) ([]Member, error) {
	ret := _m.Called(ctx, term)

	var members []Member
	if ret.Get(0) != nil {
		members = ret.Get(0).([]Member)
	}
	return members, ret.Error(1)
}

func (_m *MockMemberRepository) Count(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

var _ Repository = (*MockMemberRepository)(nil)
