package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/lookman/lending-engine/internal/domain"
)

// Repositories take an sqlx.ExtContext so the same method runs against the
// pooled connection or inside a transaction opened by Store.WithTx.

// LoanFilter narrows loan listings. Nil fields are ignored.
type LoanFilter struct {
	Status     *domain.LoanStatus
	BorrowerID *uuid.UUID
	OfficerID  *uuid.UUID

	// StartFrom/StartTo bound the loan's start date, inclusive.
	StartFrom *time.Time
	StartTo   *time.Time
}

// PaymentFilter narrows payment listings. Nil fields are ignored.
type PaymentFilter struct {
	LoanID      *uuid.UUID
	PaymentDate *time.Time
	OfficerID   *uuid.UUID // restricts to loans managed by this officer
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, loan *domain.Loan) error

	GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Loan, error)

	// GetByIDForUpdate locks the loan row for the duration of the
	// surrounding transaction so concurrent ledger writes serialize.
	GetByIDForUpdate(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Loan, error)

	// GetActiveByBorrower returns the borrower's active loan, if any.
	GetActiveByBorrower(ctx context.Context, q sqlx.ExtContext, borrowerID uuid.UUID) (*domain.Loan, error)

	Update(ctx context.Context, q sqlx.ExtContext, loan *domain.Loan) error

	List(ctx context.Context, q sqlx.ExtContext, filter LoanFilter) ([]*domain.Loan, error)

	// ListLapsedActive returns active loans whose expected end date has
	// passed, the candidate set for the daily overdue sweep.
	ListLapsedActive(ctx context.Context, q sqlx.ExtContext, today time.Time) ([]*domain.Loan, error)

	Delete(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, payment *domain.Payment) error

	GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Payment, error)

	// GetByLoanAndDay enforces the one-payment-per-day invariant.
	GetByLoanAndDay(ctx context.Context, q sqlx.ExtContext, loanID uuid.UUID, day int) (*domain.Payment, error)

	Update(ctx context.Context, q sqlx.ExtContext, payment *domain.Payment) error

	Delete(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error

	ListByLoan(ctx context.Context, q sqlx.ExtContext, loanID uuid.UUID) ([]*domain.Payment, error)

	List(ctx context.Context, q sqlx.ExtContext, filter PaymentFilter) ([]*domain.Payment, error)

	// TotalCollected sums actual amounts over all payments for a loan.
	TotalCollected(ctx context.Context, q sqlx.ExtContext, loanID uuid.UUID) (decimal.Decimal, error)

	// OfficerCollections aggregates a day's payments per recording officer.
	OfficerCollections(ctx context.Context, q sqlx.ExtContext, date time.Time, officerID *uuid.UUID) ([]domain.OfficerCollection, error)

	// PeriodCollections sums expected and actual amounts over a date range,
	// scoped to one officer's loan book when officerID is set.
	PeriodCollections(ctx context.Context, q sqlx.ExtContext, officerID *uuid.UUID, from, to time.Time) (domain.PeriodCollection, error)
}

// BorrowerRepository defines the interface for borrower data operations
type BorrowerRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, borrower *domain.Borrower) error
	GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Borrower, error)
	Update(ctx context.Context, q sqlx.ExtContext, borrower *domain.Borrower) error
	Delete(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error
	List(ctx context.Context, q sqlx.ExtContext, officerID *uuid.UUID) ([]*domain.Borrower, error)
	CountLoans(ctx context.Context, q sqlx.ExtContext, borrowerID uuid.UUID) (int, error)
}

// UserRepository defines the interface for staff account operations
type UserRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, user *domain.User) error
	GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, q sqlx.ExtContext, username string) (*domain.User, error)
	Update(ctx context.Context, q sqlx.ExtContext, user *domain.User) error
	List(ctx context.Context, q sqlx.ExtContext) ([]*domain.User, error)

	// ListActiveOfficers returns the payroll population for a salary run.
	ListActiveOfficers(ctx context.Context, q sqlx.ExtContext) ([]*domain.User, error)
}

// SalaryRepository defines the interface for monthly salary calculations
type SalaryRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, calc *domain.SalaryCalculation) error

	// GetByOfficerAndPeriod enforces the one-calculation-per-month invariant.
	GetByOfficerAndPeriod(ctx context.Context, q sqlx.ExtContext, officerID uuid.UUID, period string) (*domain.SalaryCalculation, error)

	ListByPeriod(ctx context.Context, q sqlx.ExtContext, period string) ([]*domain.SalaryCalculation, error)

	// TotalForPeriod sums total salaries settled for a period.
	TotalForPeriod(ctx context.Context, q sqlx.ExtContext, period string) (decimal.Decimal, error)
}
