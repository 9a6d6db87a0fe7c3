package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusOverdue   LoanStatus = "overdue"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// ParseLoanStatus rejects unknown status values at the boundary.
func ParseLoanStatus(s string) (LoanStatus, error) {
	switch LoanStatus(s) {
	case LoanStatusActive, LoanStatusCompleted, LoanStatusOverdue, LoanStatusDefaulted:
		return LoanStatus(s), nil
	}
	return "", fmt.Errorf("unknown loan status %q", s)
}

// Loan represents a daily-repayment microloan.
//
// InterestAmount, TotalAmount and DailyRepayment are derived from the
// principal, rate and expenses at creation time and re-derived only when an
// officer revises the financials of a still-active loan.
type Loan struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	BorrowerID       uuid.UUID       `json:"borrower_id" db:"borrower_id"`
	AccountOfficerID uuid.UUID       `json:"account_officer_id" db:"account_officer_id"`
	PrincipalAmount  decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	InterestRate     decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	InterestAmount   decimal.Decimal `json:"interest_amount" db:"interest_amount"`
	Expenses         decimal.Decimal `json:"expenses" db:"expenses"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	DailyRepayment   decimal.Decimal `json:"daily_repayment" db:"daily_repayment"`
	DurationDays     int             `json:"loan_duration_days" db:"loan_duration_days"`
	StartDate        time.Time       `json:"start_date" db:"start_date"`
	ExpectedEndDate  time.Time       `json:"expected_end_date" db:"expected_end_date"`
	ActualEndDate    *time.Time      `json:"actual_end_date,omitempty" db:"actual_end_date"`
	Status           LoanStatus      `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	BorrowerID      string          `json:"borrower_id" validate:"required,uuid4"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" validate:"required"`
	InterestRate    *decimal.Decimal `json:"interest_rate,omitempty"`
	Expenses        decimal.Decimal `json:"expenses"`
	DurationDays    int             `json:"loan_duration_days"`
	StartDate       string          `json:"start_date" validate:"required"`
}

// ReviseFinancialsRequest is the allow-listed update payload for a loan.
// Only the rate and expenses may change, and only while the loan is active.
type ReviseFinancialsRequest struct {
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"`
	Expenses     *decimal.Decimal `json:"expenses,omitempty"`
}

type UpdateLoanStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type LoanResponse struct {
	Loan               *Loan           `json:"loan"`
	TotalPayments      decimal.Decimal `json:"total_payments"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

type OutstandingResponse struct {
	LoanID      uuid.UUID       `json:"loan_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type LoansSummary struct {
	TotalLoans       int             `json:"total_loans"`
	ActiveLoans      int             `json:"active_loans"`
	CompletedLoans   int             `json:"completed_loans"`
	OverdueLoans     int             `json:"overdue_loans"`
	DefaultedLoans   int             `json:"defaulted_loans"`
	TotalPrincipal   decimal.Decimal `json:"total_principal"`
	TotalExpected    decimal.Decimal `json:"total_expected"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}
