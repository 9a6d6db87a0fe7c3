package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/repository"
)

// fixedClock pins Today for deterministic status decisions.
type fixedClock struct {
	today time.Time
}

func (c fixedClock) Today() time.Time {
	return c.today
}

// stubStore runs the transaction callback directly against a nil tx. The
// repository mocks accept any queryable, so transactional service paths
// exercise their full flow without a database.
type stubStore struct{}

func (stubStore) DB() *sqlx.DB {
	return nil
}

func (stubStore) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, q sqlx.ExtContext, loan *domain.Loan) error {
	args := m.Called(ctx, q, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetActiveByBorrower(ctx context.Context, q sqlx.ExtContext, borrowerID uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, q, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, q sqlx.ExtContext, loan *domain.Loan) error {
	args := m.Called(ctx, q, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) List(ctx context.Context, q sqlx.ExtContext, filter repository.LoanFilter) ([]*domain.Loan, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLapsedActive(ctx context.Context, q sqlx.ExtContext, today time.Time) ([]*domain.Loan, error) {
	args := m.Called(ctx, q, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Delete(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, q sqlx.ExtContext, payment *domain.Payment) error {
	args := m.Called(ctx, q, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByLoanAndDay(ctx context.Context, q sqlx.ExtContext, loanID uuid.UUID, day int) (*domain.Payment, error) {
	args := m.Called(ctx, q, loanID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, q sqlx.ExtContext, payment *domain.Payment) error {
	args := m.Called(ctx, q, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByLoan(ctx context.Context, q sqlx.ExtContext, loanID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, q, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, q sqlx.ExtContext, filter repository.PaymentFilter) ([]*domain.Payment, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) TotalCollected(ctx context.Context, q sqlx.ExtContext, loanID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, q, loanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) OfficerCollections(ctx context.Context, q sqlx.ExtContext, date time.Time, officerID *uuid.UUID) ([]domain.OfficerCollection, error) {
	args := m.Called(ctx, q, date, officerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OfficerCollection), args.Error(1)
}

func (m *MockPaymentRepository) PeriodCollections(ctx context.Context, q sqlx.ExtContext, officerID *uuid.UUID, from, to time.Time) (domain.PeriodCollection, error) {
	args := m.Called(ctx, q, officerID, from, to)
	return args.Get(0).(domain.PeriodCollection), args.Error(1)
}

type MockBorrowerRepository struct {
	mock.Mock
}

func (m *MockBorrowerRepository) Create(ctx context.Context, q sqlx.ExtContext, borrower *domain.Borrower) error {
	args := m.Called(ctx, q, borrower)
	return args.Error(0)
}

func (m *MockBorrowerRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Borrower, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}

func (m *MockBorrowerRepository) Update(ctx context.Context, q sqlx.ExtContext, borrower *domain.Borrower) error {
	args := m.Called(ctx, q, borrower)
	return args.Error(0)
}

func (m *MockBorrowerRepository) Delete(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockBorrowerRepository) List(ctx context.Context, q sqlx.ExtContext, officerID *uuid.UUID) ([]*domain.Borrower, error) {
	args := m.Called(ctx, q, officerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Borrower), args.Error(1)
}

func (m *MockBorrowerRepository) CountLoans(ctx context.Context, q sqlx.ExtContext, borrowerID uuid.UUID) (int, error) {
	args := m.Called(ctx, q, borrowerID)
	return args.Int(0), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, q sqlx.ExtContext, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, q sqlx.ExtContext, username string) (*domain.User, error) {
	args := m.Called(ctx, q, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, q sqlx.ExtContext, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, q sqlx.ExtContext) ([]*domain.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListActiveOfficers(ctx context.Context, q sqlx.ExtContext) ([]*domain.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

type MockSalaryRepository struct {
	mock.Mock
}

func (m *MockSalaryRepository) Create(ctx context.Context, q sqlx.ExtContext, calc *domain.SalaryCalculation) error {
	args := m.Called(ctx, q, calc)
	return args.Error(0)
}

func (m *MockSalaryRepository) GetByOfficerAndPeriod(ctx context.Context, q sqlx.ExtContext, officerID uuid.UUID, period string) (*domain.SalaryCalculation, error) {
	args := m.Called(ctx, q, officerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalaryCalculation), args.Error(1)
}

func (m *MockSalaryRepository) ListByPeriod(ctx context.Context, q sqlx.ExtContext, period string) ([]*domain.SalaryCalculation, error) {
	args := m.Called(ctx, q, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SalaryCalculation), args.Error(1)
}

func (m *MockSalaryRepository) TotalForPeriod(ctx context.Context, q sqlx.ExtContext, period string) (decimal.Decimal, error) {
	args := m.Called(ctx, q, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
