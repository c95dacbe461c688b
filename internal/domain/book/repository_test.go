package book

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// StubTx satisfies pgx.Tx for service tests; the service never calls the
// transaction directly.
type StubTx struct {
	pgx.Tx
}

// MockBookRepository is a testify mock of Repository, shared with the
// external service tests.
type MockBookRepository struct {
	mock.Mock
}

func (_m *MockBookRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var tx pgx.Tx
	if ret.Get(0) != nil {
		tx = ret.Get(0).(pgx.Tx)
	}
	return tx, ret.Error(1)
}

func (_m *MockBookRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockBookRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	ret := _m.Called(ctx, tx)
	return ret.Error(0)
}

func (_m *MockBookRepository) CreateBook(ctx context.Context, b *Book, copies int) (*Book, error) {
	ret := _m.Called(ctx, b, copies)

	var created *Book
	if ret.Get(0) != nil {
		created = ret.Get(0).(*Book)
	}
	return created, ret.Error(1)
}

func (_m *MockBookRepository) FindByID(ctx context.Context, bookID int64) (*BookWithAvailability, error) {
	ret := _m.Called(ctx, bookID)

	var b *BookWithAvailability
	if ret.Get(0) != nil {
		b = ret.Get(0).(*BookWithAvailability)
	}
	return b, ret.Error(1)
}

func (_m *MockBookRepository) FindAll(ctx context.Context) ([]BookWithAvailability, error) {
	ret := _m.Called(ctx)

	var books []BookWithAvailability
	if ret.Get(0) != nil {
		books = ret.Get(0).([]BookWithAvailability)
	}
	return books, ret.Error(1)
}

func (_m *MockBookRepository) Search(ctx context.Context, term string) ([]BookWithAvailability, error) {
	ret := _m.Called(ctx, term)

	var books []BookWithAvailability
	if ret.Get(0) != nil {
		books = ret.Get(0).([]BookWithAvailability)
	}
	return books, ret.Error(1)
}

func (_m *MockBookRepository) UpdateFields(ctx context.Context, bookID int64, update BookUpdate) (int64, error) {
	ret := _m.Called(ctx, bookID, update)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockBookRepository) Count(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockBookRepository) AddCopy(ctx context.Context, bookID int64) (*Copy, error) {
	ret := _m.Called(ctx, bookID)

	var c *Copy
	if ret.Get(0) != nil {
		c = ret.Get(0).(*Copy)
	}
	return c, ret.Error(1)
}

func (_m *MockBookRepository) LockCopyForUpdate(ctx context.Context, tx pgx.Tx, copyID int64) (*Copy, error) {
	ret := _m.Called(ctx, tx, copyID)

	var c *Copy
	if ret.Get(0) != nil {
		c = ret.Get(0).(*Copy)
	}
	return c, ret.Error(1)
}

func (_m *MockBookRepository) CountActiveLoansForCopyInTx(ctx context.Context, tx pgx.Tx, copyID int64) (int64, error) {
	ret := _m.Called(ctx, tx, copyID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockBookRepository) DeleteCopyInTx(ctx context.Context, tx pgx.Tx, copyID int64) error {
	ret := _m.Called(ctx, tx, copyID)
	return ret.Error(0)
}

func (_m *MockBookRepository) CountCopiesInTx(ctx context.Context, tx pgx.Tx, bookID int64) (int64, error) {
	ret := _m.Called(ctx, tx, bookID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockBookRepository) DeleteBookInTx(ctx context.Context, tx pgx.Tx, bookID int64) error {
	ret := _m.Called(ctx, tx, bookID)
	return ret.Error(0)
}

var _ Repository = (*MockBookRepository)(nil)
