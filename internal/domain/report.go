package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read-side report shapes. These are produced by aggregation queries and
// carry no behavior.

type OfficerCollection struct {
	OfficerID      uuid.UUID       `json:"officer_id" db:"officer_id"`
	OfficerName    string          `json:"officer_name" db:"officer_name"`
	Expected       decimal.Decimal `json:"expected" db:"expected"`
	Collected      decimal.Decimal `json:"collected" db:"collected"`
	CollectionRate decimal.Decimal `json:"collection_rate" db:"-"`
	PaymentCount   int             `json:"payment_count" db:"payment_count"`
}

type DailyCollectionsReport struct {
	ReportDate       string                 `json:"report_date"`
	Summary          DailyCollectionSummary `json:"summary"`
	OfficerBreakdown []OfficerCollection    `json:"officer_breakdown"`
}

type OutstandingLoanDetail struct {
	LoanID             uuid.UUID       `json:"loan_id"`
	BorrowerName       string          `json:"borrower_name"`
	PrincipalAmount    decimal.Decimal `json:"principal_amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Status             LoanStatus      `json:"status"`
	DaysOverdue        int             `json:"days_overdue"`
}

type OutstandingLoansReport struct {
	TotalLoans         int                     `json:"total_loans"`
	TotalOutstanding   decimal.Decimal         `json:"total_outstanding"`
	OverdueLoansCount  int                     `json:"overdue_loans_count"`
	OverdueOutstanding decimal.Decimal         `json:"overdue_outstanding"`
	Loans              []OutstandingLoanDetail `json:"loans"`
}

// PeriodCollection is the expected/collected pair for a date range,
// optionally scoped to one officer's loan book.
type PeriodCollection struct {
	Expected  decimal.Decimal `json:"expected" db:"expected"`
	Collected decimal.Decimal `json:"collected" db:"collected"`
}

// ProfitLossReport sets a month's loan revenue against its payroll cost.
// Revenue counts loans disbursed in the period; collections count every
// payment dated inside it, whichever loan they belong to.
type ProfitLossReport struct {
	Period               string          `json:"period"`
	PrincipalDisbursed   decimal.Decimal `json:"principal_disbursed"`
	InterestIncome       decimal.Decimal `json:"interest_income"`
	FeeIncome            decimal.Decimal `json:"fee_income"`
	GrossRevenue         decimal.Decimal `json:"gross_revenue"`
	SalaryExpenses       decimal.Decimal `json:"salary_expenses"`
	NetProfit            decimal.Decimal `json:"net_profit"`
	ProfitMargin         decimal.Decimal `json:"profit_margin"`
	CollectionsReceived  decimal.Decimal `json:"collections_received"`
	CollectionEfficiency decimal.Decimal `json:"collection_efficiency"`
	LoansDisbursed       int             `json:"loans_disbursed"`
	AverageLoanSize      decimal.Decimal `json:"average_loan_size"`
}

type OfficerPerformance struct {
	OfficerID            uuid.UUID       `json:"officer_id"`
	OfficerName          string          `json:"officer_name"`
	TotalLoans           int             `json:"total_loans"`
	ActiveLoans          int             `json:"active_loans"`
	CompletedLoans       int             `json:"completed_loans"`
	OverdueLoans         int             `json:"overdue_loans"`
	CompletionRate       decimal.Decimal `json:"completion_rate"`
	OverdueRate          decimal.Decimal `json:"overdue_rate"`
	PeriodExpected       decimal.Decimal `json:"period_expected"`
	PeriodCollected      decimal.Decimal `json:"period_collected"`
	CollectionRate       decimal.Decimal `json:"collection_rate"`
	TotalPortfolio       decimal.Decimal `json:"total_portfolio"`
	OutstandingPortfolio decimal.Decimal `json:"outstanding_portfolio"`
}

// PerformanceReport ranks officers by their collection rate for a month.
type PerformanceReport struct {
	Period   string               `json:"period"`
	Officers []OfficerPerformance `json:"officers"`
}

// MonthlySummaryReport is the one-page month close: loan activity,
// collections, the live book and payroll cost.
type MonthlySummaryReport struct {
	Period           string          `json:"period"`
	LoansCreated     int             `json:"loans_created"`
	LoansCompleted   int             `json:"loans_completed"`
	TotalDisbursed   decimal.Decimal `json:"total_disbursed"`
	AverageLoanSize  decimal.Decimal `json:"average_loan_size"`
	TotalCollections decimal.Decimal `json:"total_collections"`
	OutstandingLoans int             `json:"outstanding_loans"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	SalaryCosts      decimal.Decimal `json:"salary_costs"`
	NetCashFlow      decimal.Decimal `json:"net_cash_flow"`
}
