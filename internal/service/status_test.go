package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lookman/lending-engine/internal/domain"
)

func statusTestLoan() *domain.Loan {
	return &domain.Loan{
		TotalAmount:     decimal.RequireFromString("5500.00"),
		ExpectedEndDate: time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		Status:          domain.LoanStatusActive,
	}
}

func TestApplyStatus(t *testing.T) {
	before := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	after := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)
	onEnd := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		collected string
		today     time.Time
		expected  domain.LoanStatus
	}{
		{"partially paid before end date", "1000.00", before, domain.LoanStatusActive},
		{"nothing paid on end date", "0", onEnd, domain.LoanStatusActive},
		{"partially paid after end date", "1000.00", after, domain.LoanStatusOverdue},
		{"fully paid before end date", "5500.00", before, domain.LoanStatusCompleted},
		{"overpaid", "6000.00", before, domain.LoanStatusCompleted},
		{"fully paid after end date wins over overdue", "5500.00", after, domain.LoanStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := statusTestLoan()
			applyStatus(loan, decimal.RequireFromString(tt.collected), tt.today)
			assert.Equal(t, tt.expected, loan.Status)
		})
	}
}

func TestApplyStatusSetsActualEndDateOnce(t *testing.T) {
	loan := statusTestLoan()
	firstToday := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)

	applyStatus(loan, loan.TotalAmount, firstToday)
	require.Equal(t, domain.LoanStatusCompleted, loan.Status)
	require.NotNil(t, loan.ActualEndDate)
	assert.Equal(t, firstToday, *loan.ActualEndDate)

	// A later recompute must not move the completion date
	applyStatus(loan, loan.TotalAmount, firstToday.AddDate(0, 0, 5))
	assert.Equal(t, domain.LoanStatusCompleted, loan.Status)
	assert.Equal(t, firstToday, *loan.ActualEndDate)
}

func TestApplyStatusReactivatesOverdueLoan(t *testing.T) {
	loan := statusTestLoan()
	loan.Status = domain.LoanStatusOverdue

	// Still unpaid but back inside the window, e.g. after a financial revision
	applyStatus(loan, decimal.RequireFromString("100.00"), time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, domain.LoanStatusActive, loan.Status)
}

func TestApplyStatusNeverTouchesDefaulted(t *testing.T) {
	loan := statusTestLoan()
	loan.Status = domain.LoanStatusDefaulted

	// Even full repayment leaves a defaulted loan defaulted
	applyStatus(loan, loan.TotalAmount, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, domain.LoanStatusDefaulted, loan.Status)
	assert.Nil(t, loan.ActualEndDate)
}

func TestApplyStatusNeverDerivesDefaulted(t *testing.T) {
	loan := statusTestLoan()

	// Arbitrarily late with nothing collected is still just overdue
	applyStatus(loan, decimal.Zero, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, domain.LoanStatusOverdue, loan.Status)
}

func TestSweepFlagsLapsedLoans(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	paymentRepo := new(MockPaymentRepository)
	today := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	first := statusTestLoan()
	first.ID = uuid.New()
	second := statusTestLoan()
	second.ID = uuid.New()

	loanRepo.On("ListLapsedActive", mock.Anything, mock.Anything, today).
		Return([]*domain.Loan{first, second}, nil)
	loanRepo.On("Update", mock.Anything, mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.Status == domain.LoanStatusOverdue
	})).Return(nil).Twice()

	svc := NewStatusService(stubStore{}, loanRepo, paymentRepo, fixedClock{today: today})

	flagged, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, flagged)
	assert.Equal(t, domain.LoanStatusOverdue, first.Status)
	assert.Equal(t, domain.LoanStatusOverdue, second.Status)
	loanRepo.AssertExpectations(t)
}

func TestSweepIdempotent(t *testing.T) {
	loanRepo := new(MockLoanRepository)
	paymentRepo := new(MockPaymentRepository)
	today := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	lapsed := statusTestLoan()
	lapsed.ID = uuid.New()

	// First run flags the loan; the repeat finds nothing active past its
	// end date
	loanRepo.On("ListLapsedActive", mock.Anything, mock.Anything, today).
		Return([]*domain.Loan{lapsed}, nil).Once()
	loanRepo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	loanRepo.On("ListLapsedActive", mock.Anything, mock.Anything, today).
		Return([]*domain.Loan{}, nil).Once()

	svc := NewStatusService(stubStore{}, loanRepo, paymentRepo, fixedClock{today: today})

	flagged, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)

	flagged, err = svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, flagged)
	loanRepo.AssertExpectations(t)
}
