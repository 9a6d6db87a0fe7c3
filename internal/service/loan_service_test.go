package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/repository"
	bizErrors "github.com/lookman/lending-engine/pkg/errors"
)

func scheduleTestLoan(start time.Time, days int) *domain.Loan {
	return &domain.Loan{
		ID:             uuid.New(),
		DurationDays:   days,
		StartDate:      start,
		DailyRepayment: decimal.RequireFromString("366.67"),
	}
}

func TestComputeSchedule(t *testing.T) {
	// Friday start: two full weekends fall inside the collection window
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	loan := scheduleTestLoan(start, 15)

	schedule := ComputeSchedule(loan)
	require.Len(t, schedule, 15)

	assert.Equal(t, 1, schedule[0].Day)
	assert.Equal(t, start, schedule[0].Date)

	// Day 2 jumps over the first weekend to Monday
	assert.Equal(t, time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC), schedule[1].Date)

	// Weekend skips push the final collection past the calendar end date
	assert.Equal(t, 15, schedule[14].Day)
	assert.Equal(t, time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC), schedule[14].Date)

	for i, entry := range schedule {
		assert.Equal(t, i+1, entry.Day)
		wd := entry.Date.Weekday()
		assert.NotEqual(t, time.Saturday, wd, "entry %d on Saturday", entry.Day)
		assert.NotEqual(t, time.Sunday, wd, "entry %d on Sunday", entry.Day)
		assert.True(t, entry.ExpectedAmount.Equal(loan.DailyRepayment))
		if i > 0 {
			assert.True(t, entry.Date.After(schedule[i-1].Date), "dates must be strictly increasing")
		}
	}
}

func TestComputeScheduleWeekendStart(t *testing.T) {
	// Saturday start: day 1 lands on the following Monday
	saturday := time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)
	schedule := ComputeSchedule(scheduleTestLoan(saturday, 5))

	require.Len(t, schedule, 5)
	assert.Equal(t, time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC), schedule[0].Date)
	assert.Equal(t, time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC), schedule[4].Date)
}

func TestComputeScheduleDeterministic(t *testing.T) {
	loan := scheduleTestLoan(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), 15)

	first := ComputeSchedule(loan)
	second := ComputeSchedule(loan)
	assert.Equal(t, first, second)
}

func newLoanServiceForTest(
	loanRepo *MockLoanRepository,
	paymentRepo *MockPaymentRepository,
	borrowerRepo *MockBorrowerRepository,
) *LoanService {
	return NewLoanService(
		stubStore{},
		loanRepo,
		paymentRepo,
		borrowerRepo,
		fixedClock{today: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)},
		decimal.RequireFromString("10.00"),
		15,
	)
}

func TestCreateLoanDerivesFinancials(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	paymentRepo := new(MockPaymentRepository)
	borrowerRepo := new(MockBorrowerRepository)

	officer := Actor{ID: uuid.New(), Role: domain.RoleAccountOfficer}
	borrowerID := uuid.New()

	borrowerRepo.On("GetByID", mock.Anything, mock.Anything, borrowerID).
		Return(&domain.Borrower{ID: borrowerID, Name: "Ada", CreatedBy: officer.ID}, nil)
	loanRepo.On("GetActiveByBorrower", mock.Anything, mock.Anything, borrowerID).
		Return(nil, sql.ErrNoRows)
	loanRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.Loan")).
		Return(nil)

	svc := newLoanServiceForTest(loanRepo, paymentRepo, borrowerRepo)

	loan, schedule, err := svc.CreateLoan(context.Background(), officer, &domain.CreateLoanRequest{
		BorrowerID:      borrowerID.String(),
		PrincipalAmount: decimal.RequireFromString("5000"),
		Expenses:        decimal.Zero,
		DurationDays:    15,
		StartDate:       "2025-08-01",
	})
	require.NoError(t, err)
	require.NotNil(t, loan)

	assert.True(t, loan.InterestRate.Equal(decimal.RequireFromString("10.00")), "default rate applied")
	assert.True(t, loan.InterestAmount.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, loan.TotalAmount.Equal(decimal.RequireFromString("5500.00")))
	assert.True(t, loan.DailyRepayment.Equal(decimal.RequireFromString("366.67")))
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), loan.ExpectedEndDate)
	assert.Equal(t, domain.LoanStatusActive, loan.Status)
	assert.Equal(t, officer.ID, loan.AccountOfficerID)
	assert.Nil(t, loan.ActualEndDate)
	assert.Len(t, schedule, 15)

	loanRepo.AssertExpectations(t)
	borrowerRepo.AssertExpectations(t)
}

func TestCreateLoanValidation(t *testing.T) {
	borrowerID := uuid.New().String()

	tests := []struct {
		name string
		req  *domain.CreateLoanRequest
	}{
		{
			name: "malformed borrower id",
			req: &domain.CreateLoanRequest{
				BorrowerID:      "not-a-uuid",
				PrincipalAmount: decimal.RequireFromString("5000"),
				StartDate:       "2025-08-01",
			},
		},
		{
			name: "zero principal",
			req: &domain.CreateLoanRequest{
				BorrowerID:      borrowerID,
				PrincipalAmount: decimal.Zero,
				StartDate:       "2025-08-01",
			},
		},
		{
			name: "negative expenses",
			req: &domain.CreateLoanRequest{
				BorrowerID:      borrowerID,
				PrincipalAmount: decimal.RequireFromString("5000"),
				Expenses:        decimal.RequireFromString("-1"),
				StartDate:       "2025-08-01",
			},
		},
		{
			name: "malformed start date",
			req: &domain.CreateLoanRequest{
				BorrowerID:      borrowerID,
				PrincipalAmount: decimal.RequireFromString("5000"),
				StartDate:       "01/08/2025",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newLoanServiceForTest(new(MockLoanRepository), new(MockPaymentRepository), new(MockBorrowerRepository))

			_, _, err := svc.CreateLoan(context.Background(), Actor{ID: uuid.New(), Role: domain.RoleAdmin}, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, bizErrors.ErrInvalidInput), "expected invalid input, got %v", err)
		})
	}
}

func TestCreateLoanNegativeRate(t *testing.T) {
	svc := newLoanServiceForTest(new(MockLoanRepository), new(MockPaymentRepository), new(MockBorrowerRepository))

	rate := decimal.RequireFromString("-5")
	_, _, err := svc.CreateLoan(context.Background(), Actor{ID: uuid.New(), Role: domain.RoleAdmin}, &domain.CreateLoanRequest{
		BorrowerID:      uuid.New().String(),
		PrincipalAmount: decimal.RequireFromString("5000"),
		InterestRate:    &rate,
		StartDate:       "2025-08-01",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bizErrors.ErrInvalidInput))
}

func TestCreateLoanRejectsSecondActiveLoan(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	borrowerRepo := new(MockBorrowerRepository)

	officer := Actor{ID: uuid.New(), Role: domain.RoleAccountOfficer}
	borrowerID := uuid.New()

	borrowerRepo.On("GetByID", mock.Anything, mock.Anything, borrowerID).
		Return(&domain.Borrower{ID: borrowerID, CreatedBy: officer.ID}, nil)
	loanRepo.On("GetActiveByBorrower", mock.Anything, mock.Anything, borrowerID).
		Return(&domain.Loan{ID: uuid.New(), BorrowerID: borrowerID, Status: domain.LoanStatusActive}, nil)

	svc := newLoanServiceForTest(loanRepo, new(MockPaymentRepository), borrowerRepo)

	_, _, err := svc.CreateLoan(context.Background(), officer, &domain.CreateLoanRequest{
		BorrowerID:      borrowerID.String(),
		PrincipalAmount: decimal.RequireFromString("5000"),
		StartDate:       "2025-08-01",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bizErrors.ErrInvalidState))
}

func TestCreateLoanBorrowerOwnership(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	borrowerRepo := new(MockBorrowerRepository)

	officer := Actor{ID: uuid.New(), Role: domain.RoleAccountOfficer}
	borrowerID := uuid.New()

	// Borrower registered by a different officer
	borrowerRepo.On("GetByID", mock.Anything, mock.Anything, borrowerID).
		Return(&domain.Borrower{ID: borrowerID, CreatedBy: uuid.New()}, nil)

	svc := newLoanServiceForTest(loanRepo, new(MockPaymentRepository), borrowerRepo)

	_, _, err := svc.CreateLoan(context.Background(), officer, &domain.CreateLoanRequest{
		BorrowerID:      borrowerID.String(),
		PrincipalAmount: decimal.RequireFromString("5000"),
		StartDate:       "2025-08-01",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bizErrors.ErrAccessDenied))
}

func TestCreateLoanBorrowerNotFound(t *testing.T) {
	borrowerRepo := new(MockBorrowerRepository)
	borrowerID := uuid.New()

	borrowerRepo.On("GetByID", mock.Anything, mock.Anything, borrowerID).
		Return(nil, sql.ErrNoRows)

	svc := newLoanServiceForTest(new(MockLoanRepository), new(MockPaymentRepository), borrowerRepo)

	_, _, err := svc.CreateLoan(context.Background(), Actor{ID: uuid.New(), Role: domain.RoleAdmin}, &domain.CreateLoanRequest{
		BorrowerID:      borrowerID.String(),
		PrincipalAmount: decimal.RequireFromString("5000"),
		StartDate:       "2025-08-01",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bizErrors.ErrNotFound))
}

func TestGetLoanReturnsLedgerTotals(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	paymentRepo := new(MockPaymentRepository)

	officer := Actor{ID: uuid.New(), Role: domain.RoleAccountOfficer}
	loan := &domain.Loan{
		ID:               uuid.New(),
		AccountOfficerID: officer.ID,
		TotalAmount:      decimal.RequireFromString("5500.00"),
		Status:           domain.LoanStatusActive,
	}

	loanRepo.On("GetByID", mock.Anything, mock.Anything, loan.ID).Return(loan, nil)
	paymentRepo.On("TotalCollected", mock.Anything, mock.Anything, loan.ID).
		Return(decimal.RequireFromString("1100.01"), nil)

	svc := newLoanServiceForTest(loanRepo, paymentRepo, new(MockBorrowerRepository))

	resp, err := svc.GetLoan(context.Background(), officer, loan.ID)
	require.NoError(t, err)
	assert.True(t, resp.TotalPayments.Equal(decimal.RequireFromString("1100.01")))
	assert.True(t, resp.OutstandingBalance.Equal(decimal.RequireFromString("4399.99")))
}

func TestGetLoanOfficerScoping(t *testing.T) {
	loanRepo := new(MockLoanRepository)

	loan := &domain.Loan{
		ID:               uuid.New(),
		AccountOfficerID: uuid.New(),
		TotalAmount:      decimal.RequireFromString("5500.00"),
	}
	loanRepo.On("GetByID", mock.Anything, mock.Anything, loan.ID).Return(loan, nil)

	svc := newLoanServiceForTest(loanRepo, new(MockPaymentRepository), new(MockBorrowerRepository))

	// Another officer cannot see the loan
	_, err := svc.GetLoan(context.Background(), Actor{ID: uuid.New(), Role: domain.RoleAccountOfficer}, loan.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bizErrors.ErrAccessDenied))
}

func TestListLoansFilters(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	officer := Actor{ID: uuid.New(), Role: domain.RoleAccountOfficer}

	loanRepo.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(f repository.LoanFilter) bool {
		return f.Status != nil && *f.Status == domain.LoanStatusOverdue &&
			f.OfficerID != nil && *f.OfficerID == officer.ID
	})).Return([]*domain.Loan{}, nil)

	svc := newLoanServiceForTest(loanRepo, new(MockPaymentRepository), new(MockBorrowerRepository))

	_, err := svc.ListLoans(context.Background(), officer, "overdue", "")
	require.NoError(t, err)
	loanRepo.AssertExpectations(t)

	// Unknown status is rejected at the boundary
	_, err = svc.ListLoans(context.Background(), officer, "closed", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, bizErrors.ErrInvalidInput))
}

func TestListLoansAdminSeesAll(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	admin := Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	loanRepo.On("List", mock.Anything, mock.Anything, mock.MatchedBy(func(f repository.LoanFilter) bool {
		return f.OfficerID == nil && f.Status == nil && f.BorrowerID == nil
	})).Return([]*domain.Loan{}, nil)

	svc := newLoanServiceForTest(loanRepo, new(MockPaymentRepository), new(MockBorrowerRepository))

	_, err := svc.ListLoans(context.Background(), admin, "", "")
	require.NoError(t, err)
	loanRepo.AssertExpectations(t)
}
