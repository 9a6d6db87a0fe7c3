package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/repository"
	bizErrors "github.com/lookman/lending-engine/pkg/errors"
	"github.com/lookman/lending-engine/pkg/utils"
)

// ReportService produces the management read-side aggregations.
type ReportService struct {
	store        repository.Store
	loanRepo     repository.LoanRepository
	paymentRepo  repository.PaymentRepository
	borrowerRepo repository.BorrowerRepository
	salaryRepo   repository.SalaryRepository
	userRepo     repository.UserRepository
	clock        Clock
}

func NewReportService(
	store repository.Store,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	borrowerRepo repository.BorrowerRepository,
	salaryRepo repository.SalaryRepository,
	userRepo repository.UserRepository,
	clock Clock,
) *ReportService {
	return &ReportService{
		store:        store,
		loanRepo:     loanRepo,
		paymentRepo:  paymentRepo,
		borrowerRepo: borrowerRepo,
		salaryRepo:   salaryRepo,
		userRepo:     userRepo,
		clock:        clock,
	}
}

// DailyCollections breaks a day's collections down per recording officer.
func (s *ReportService) DailyCollections(ctx context.Context, actor Actor, dateStr string) (*domain.DailyCollectionsReport, error) {
	date := s.clock.Today()
	if dateStr != "" {
		parsed, err := utils.ParseDate(dateStr)
		if err != nil {
			return nil, bizErrors.WrapInvalidInput("invalid date format, use YYYY-MM-DD")
		}
		date = parsed
	}

	var officerID *uuid.UUID
	if !actor.IsAdmin() {
		officerID = &actor.ID
	}

	rows, err := s.paymentRepo.OfficerCollections(ctx, s.store.DB(), date, officerID)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}

	report := &domain.DailyCollectionsReport{
		ReportDate: utils.FormatDate(date),
		Summary: domain.DailyCollectionSummary{
			Date:           utils.FormatDate(date),
			TotalExpected:  decimal.Zero,
			TotalCollected: decimal.Zero,
			CollectionRate: decimal.Zero,
		},
		OfficerBreakdown: make([]domain.OfficerCollection, 0, len(rows)),
	}

	for _, row := range rows {
		if row.Expected.IsPositive() {
			row.CollectionRate = row.Collected.Div(row.Expected).Mul(decimal.NewFromInt(100)).Round(2)
		} else {
			row.CollectionRate = decimal.Zero
		}
		report.OfficerBreakdown = append(report.OfficerBreakdown, row)

		report.Summary.TotalExpected = report.Summary.TotalExpected.Add(row.Expected)
		report.Summary.TotalCollected = report.Summary.TotalCollected.Add(row.Collected)
		report.Summary.TotalPayments += row.PaymentCount
	}

	if report.Summary.TotalExpected.IsPositive() {
		report.Summary.CollectionRate = report.Summary.TotalCollected.
			Div(report.Summary.TotalExpected).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return report, nil
}

// OutstandingLoans reports every active and overdue loan with its balance.
func (s *ReportService) OutstandingLoans(ctx context.Context, actor Actor) (*domain.OutstandingLoansReport, error) {
	today := s.clock.Today()

	loans, err := s.visibleLoansByStatus(ctx, actor, domain.LoanStatusActive, domain.LoanStatusOverdue)
	if err != nil {
		return nil, err
	}

	report := &domain.OutstandingLoansReport{
		TotalLoans:         len(loans),
		TotalOutstanding:   decimal.Zero,
		OverdueOutstanding: decimal.Zero,
		Loans:              make([]domain.OutstandingLoanDetail, 0, len(loans)),
	}

	for _, loan := range loans {
		collected, err := s.paymentRepo.TotalCollected(ctx, s.store.DB(), loan.ID)
		if err != nil {
			return nil, bizErrors.WrapStorageFailure(err)
		}
		outstanding := loan.TotalAmount.Sub(collected)

		borrowerName := ""
		if borrower, err := s.borrowerRepo.GetByID(ctx, s.store.DB(), loan.BorrowerID); err == nil {
			borrowerName = borrower.Name
		}

		daysOverdue := 0
		if today.After(loan.ExpectedEndDate) {
			daysOverdue = int(today.Sub(loan.ExpectedEndDate).Hours() / 24)
			report.OverdueLoansCount++
			report.OverdueOutstanding = report.OverdueOutstanding.Add(outstanding)
		}

		report.TotalOutstanding = report.TotalOutstanding.Add(outstanding)
		report.Loans = append(report.Loans, domain.OutstandingLoanDetail{
			LoanID:             loan.ID,
			BorrowerName:       borrowerName,
			PrincipalAmount:    loan.PrincipalAmount,
			OutstandingBalance: outstanding,
			Status:             loan.Status,
			DaysOverdue:        daysOverdue,
		})
	}

	return report, nil
}

// Summary aggregates counts and totals across the actor's loan book.
func (s *ReportService) Summary(ctx context.Context, actor Actor) (*domain.LoansSummary, error) {
	filter := repository.LoanFilter{}
	if !actor.IsAdmin() {
		filter.OfficerID = &actor.ID
	}

	loans, err := s.loanRepo.List(ctx, s.store.DB(), filter)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}

	summary := &domain.LoansSummary{
		TotalLoans:       len(loans),
		TotalPrincipal:   decimal.Zero,
		TotalExpected:    decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}

	for _, loan := range loans {
		switch loan.Status {
		case domain.LoanStatusActive:
			summary.ActiveLoans++
		case domain.LoanStatusCompleted:
			summary.CompletedLoans++
		case domain.LoanStatusOverdue:
			summary.OverdueLoans++
		case domain.LoanStatusDefaulted:
			summary.DefaultedLoans++
		}

		collected, err := s.paymentRepo.TotalCollected(ctx, s.store.DB(), loan.ID)
		if err != nil {
			return nil, bizErrors.WrapStorageFailure(err)
		}

		summary.TotalPrincipal = summary.TotalPrincipal.Add(loan.PrincipalAmount)
		summary.TotalExpected = summary.TotalExpected.Add(loan.TotalAmount)
		summary.TotalCollected = summary.TotalCollected.Add(collected)

		// Outstanding is reported over the live book only
		if loan.Status == domain.LoanStatusActive {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(loan.TotalAmount.Sub(collected))
		}
	}

	return summary, nil
}

// ProfitLoss sets a month's loan revenue against its payroll cost. Admin
// only, enforced by middleware. Revenue counts loans disbursed in the
// period; collections count every payment dated inside it.
func (s *ReportService) ProfitLoss(ctx context.Context, period string) (*domain.ProfitLossReport, error) {
	period, from, to, err := s.resolvePeriod(period)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.List(ctx, s.store.DB(), repository.LoanFilter{StartFrom: &from, StartTo: &to})
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}

	report := &domain.ProfitLossReport{
		Period:             period,
		PrincipalDisbursed: decimal.Zero,
		InterestIncome:     decimal.Zero,
		FeeIncome:          decimal.Zero,
		LoansDisbursed:     len(loans),
	}
	for _, loan := range loans {
		report.PrincipalDisbursed = report.PrincipalDisbursed.Add(loan.PrincipalAmount)
		report.InterestIncome = report.InterestIncome.Add(loan.InterestAmount)
		report.FeeIncome = report.FeeIncome.Add(loan.Expenses)
	}
	report.GrossRevenue = report.InterestIncome.Add(report.FeeIncome)

	totals, err := s.paymentRepo.PeriodCollections(ctx, s.store.DB(), nil, from, to)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	report.CollectionsReceived = totals.Collected

	report.SalaryExpenses, err = s.salaryRepo.TotalForPeriod(ctx, s.store.DB(), period)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}

	report.NetProfit = report.GrossRevenue.Sub(report.SalaryExpenses)
	report.ProfitMargin = percentOf(report.NetProfit, report.GrossRevenue)
	report.CollectionEfficiency = percentOf(report.CollectionsReceived, report.PrincipalDisbursed)
	if report.LoansDisbursed > 0 {
		report.AverageLoanSize = report.PrincipalDisbursed.
			Div(decimal.NewFromInt(int64(report.LoansDisbursed))).Round(2)
	} else {
		report.AverageLoanSize = decimal.Zero
	}

	return report, nil
}

// Performance ranks officers by their collection rate over a month.
// Admins see every active officer; an officer sees only their own row.
func (s *ReportService) Performance(ctx context.Context, actor Actor, period string) (*domain.PerformanceReport, error) {
	period, from, to, err := s.resolvePeriod(period)
	if err != nil {
		return nil, err
	}

	var officers []*domain.User
	if actor.IsAdmin() {
		officers, err = s.userRepo.ListActiveOfficers(ctx, s.store.DB())
		if err != nil {
			return nil, bizErrors.WrapStorageFailure(err)
		}
	} else {
		self, err := s.userRepo.GetByID(ctx, s.store.DB(), actor.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, bizErrors.WrapUserNotFound(actor.ID.String())
			}
			return nil, bizErrors.WrapStorageFailure(err)
		}
		officers = []*domain.User{self}
	}

	report := &domain.PerformanceReport{
		Period:   period,
		Officers: make([]domain.OfficerPerformance, 0, len(officers)),
	}

	for _, officer := range officers {
		row, err := s.officerPerformance(ctx, officer, from, to)
		if err != nil {
			return nil, err
		}
		report.Officers = append(report.Officers, *row)
	}

	sort.SliceStable(report.Officers, func(i, j int) bool {
		return report.Officers[i].CollectionRate.GreaterThan(report.Officers[j].CollectionRate)
	})

	return report, nil
}

// MonthlySummary is the one-page month close. Admin only, enforced by
// middleware.
func (s *ReportService) MonthlySummary(ctx context.Context, period string) (*domain.MonthlySummaryReport, error) {
	period, from, to, err := s.resolvePeriod(period)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.List(ctx, s.store.DB(), repository.LoanFilter{})
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}

	report := &domain.MonthlySummaryReport{
		Period:           period,
		TotalDisbursed:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}

	for _, loan := range loans {
		if withinRange(loan.StartDate, from, to) {
			report.LoansCreated++
			report.TotalDisbursed = report.TotalDisbursed.Add(loan.PrincipalAmount)
		}
		if loan.ActualEndDate != nil && withinRange(*loan.ActualEndDate, from, to) {
			report.LoansCompleted++
		}

		if loan.Status != domain.LoanStatusActive && loan.Status != domain.LoanStatusOverdue {
			continue
		}
		if loan.StartDate.After(to) {
			continue
		}

		collected, err := s.paymentRepo.TotalCollected(ctx, s.store.DB(), loan.ID)
		if err != nil {
			return nil, bizErrors.WrapStorageFailure(err)
		}
		report.OutstandingLoans++
		report.TotalOutstanding = report.TotalOutstanding.Add(loan.TotalAmount.Sub(collected))
	}

	if report.LoansCreated > 0 {
		report.AverageLoanSize = report.TotalDisbursed.
			Div(decimal.NewFromInt(int64(report.LoansCreated))).Round(2)
	} else {
		report.AverageLoanSize = decimal.Zero
	}

	totals, err := s.paymentRepo.PeriodCollections(ctx, s.store.DB(), nil, from, to)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	report.TotalCollections = totals.Collected

	report.SalaryCosts, err = s.salaryRepo.TotalForPeriod(ctx, s.store.DB(), period)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}

	report.NetCashFlow = report.TotalCollections.Sub(report.TotalDisbursed)

	return report, nil
}

func (s *ReportService) officerPerformance(ctx context.Context, officer *domain.User, from, to time.Time) (*domain.OfficerPerformance, error) {
	loans, err := s.loanRepo.List(ctx, s.store.DB(), repository.LoanFilter{OfficerID: &officer.ID})
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}

	row := &domain.OfficerPerformance{
		OfficerID:            officer.ID,
		OfficerName:          officer.FullName,
		TotalLoans:           len(loans),
		TotalPortfolio:       decimal.Zero,
		OutstandingPortfolio: decimal.Zero,
	}

	for _, loan := range loans {
		switch loan.Status {
		case domain.LoanStatusActive:
			row.ActiveLoans++
		case domain.LoanStatusCompleted:
			row.CompletedLoans++
		case domain.LoanStatusOverdue:
			row.OverdueLoans++
		}

		row.TotalPortfolio = row.TotalPortfolio.Add(loan.PrincipalAmount)

		if loan.Status == domain.LoanStatusActive || loan.Status == domain.LoanStatusOverdue {
			collected, err := s.paymentRepo.TotalCollected(ctx, s.store.DB(), loan.ID)
			if err != nil {
				return nil, bizErrors.WrapStorageFailure(err)
			}
			row.OutstandingPortfolio = row.OutstandingPortfolio.Add(loan.TotalAmount.Sub(collected))
		}
	}

	total := decimal.NewFromInt(int64(row.TotalLoans))
	row.CompletionRate = percentOf(decimal.NewFromInt(int64(row.CompletedLoans)), total)
	row.OverdueRate = percentOf(decimal.NewFromInt(int64(row.OverdueLoans)), total)

	totals, err := s.paymentRepo.PeriodCollections(ctx, s.store.DB(), &officer.ID, from, to)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	row.PeriodExpected = totals.Expected
	row.PeriodCollected = totals.Collected
	row.CollectionRate = percentOf(row.PeriodCollected, row.PeriodExpected)

	return row, nil
}

// resolvePeriod defaults an empty period to the current month and returns
// its inclusive day bounds.
func (s *ReportService) resolvePeriod(period string) (string, time.Time, time.Time, error) {
	if period == "" {
		period = utils.FormatPeriod(s.clock.Today())
	}
	from, to, err := utils.ParsePeriod(period)
	if err != nil {
		return "", time.Time{}, time.Time{}, bizErrors.WrapInvalidInput("invalid period format, use YYYY-MM")
	}
	return period, from, to, nil
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}

func withinRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func (s *ReportService) visibleLoansByStatus(ctx context.Context, actor Actor, statuses ...domain.LoanStatus) ([]*domain.Loan, error) {
	var result []*domain.Loan
	for _, status := range statuses {
		st := status
		filter := repository.LoanFilter{Status: &st}
		if !actor.IsAdmin() {
			filter.OfficerID = &actor.ID
		}

		loans, err := s.loanRepo.List(ctx, s.store.DB(), filter)
		if err != nil {
			return nil, bizErrors.WrapStorageFailure(err)
		}
		result = append(result, loans...)
	}
	return result, nil
}
