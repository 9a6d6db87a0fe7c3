package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/repository"
	bizErrors "github.com/lookman/lending-engine/pkg/errors"
	"github.com/lookman/lending-engine/pkg/utils"
)

// ComputeSchedule derives the collection schedule from the loan's fields.
// Starting at the loan's start date, each of the duration's days lands on
// the next business day: the cursor skips over Saturday and Sunday before a
// day is counted, then advances one calendar day. Deterministic and
// restartable; nothing is persisted.
//
// The weekend skip can push the last entries past the loan's expected end
// date, which is a plain calendar-day offset. The two are computed
// independently, on purpose; collections staff treat the schedule as the
// source of collection dates and the end date as the accounting deadline.
func ComputeSchedule(loan *domain.Loan) []domain.ScheduleEntry {
	schedule := make([]domain.ScheduleEntry, 0, loan.DurationDays)
	cursor := loan.StartDate

	for day := 1; day <= loan.DurationDays; day++ {
		cursor = utils.NextBusinessDay(cursor)
		schedule = append(schedule, domain.ScheduleEntry{
			Day:            day,
			Date:           cursor,
			ExpectedAmount: loan.DailyRepayment,
		})
		cursor = cursor.AddDate(0, 0, 1)
	}

	return schedule
}

// LoanService is the loan accounting engine: it derives a loan's financial
// shape at creation time and owns every later mutation of it.
type LoanService struct {
	store        repository.Store
	loanRepo     repository.LoanRepository
	paymentRepo  repository.PaymentRepository
	borrowerRepo repository.BorrowerRepository
	clock        Clock

	defaultRate         decimal.Decimal
	defaultDurationDays int
}

func NewLoanService(
	store repository.Store,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	borrowerRepo repository.BorrowerRepository,
	clock Clock,
	defaultRate decimal.Decimal,
	defaultDurationDays int,
) *LoanService {
	return &LoanService{
		store:               store,
		loanRepo:            loanRepo,
		paymentRepo:         paymentRepo,
		borrowerRepo:        borrowerRepo,
		clock:               clock,
		defaultRate:         defaultRate,
		defaultDurationDays: defaultDurationDays,
	}
}

// CreateLoan validates the request, fills rate and duration from the
// configured defaults when omitted, derives the financial fields and
// persists the loan as active.
func (s *LoanService) CreateLoan(ctx context.Context, actor Actor, req *domain.CreateLoanRequest) (*domain.Loan, []domain.ScheduleEntry, error) {
	borrowerID, err := uuid.Parse(req.BorrowerID)
	if err != nil {
		return nil, nil, bizErrors.WrapInvalidInput("borrower_id must be a valid UUID")
	}

	if !req.PrincipalAmount.IsPositive() {
		return nil, nil, bizErrors.WrapInvalidInput("principal amount must be greater than 0")
	}

	if req.Expenses.IsNegative() {
		return nil, nil, bizErrors.WrapInvalidInput("expenses must be 0 or greater")
	}

	rate := s.defaultRate
	if req.InterestRate != nil {
		rate = *req.InterestRate
	}
	if rate.IsNegative() {
		return nil, nil, bizErrors.WrapInvalidInput("interest rate must be 0 or greater")
	}

	durationDays := req.DurationDays
	if durationDays == 0 {
		durationDays = s.defaultDurationDays
	}
	if durationDays <= 0 {
		return nil, nil, bizErrors.WrapInvalidInput("loan duration must be greater than 0 days")
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, nil, bizErrors.WrapInvalidInput("invalid start date format, use YYYY-MM-DD")
	}

	borrower, err := s.borrowerRepo.GetByID(ctx, s.store.DB(), borrowerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, bizErrors.WrapBorrowerNotFound(req.BorrowerID)
		}
		return nil, nil, bizErrors.WrapStorageFailure(err)
	}
	if !actor.IsAdmin() && borrower.CreatedBy != actor.ID {
		return nil, nil, bizErrors.WrapAccessDenied("borrower belongs to another officer")
	}

	// One active loan per borrower
	if _, err := s.loanRepo.GetActiveByBorrower(ctx, s.store.DB(), borrowerID); err == nil {
		return nil, nil, bizErrors.WrapInvalidState("borrower already has an active loan")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, bizErrors.WrapStorageFailure(err)
	}

	interest := utils.CalculateInterest(req.PrincipalAmount, rate)
	total := utils.CalculateTotalAmount(req.PrincipalAmount, interest, req.Expenses)

	now := time.Now()
	loan := &domain.Loan{
		ID:               uuid.New(),
		BorrowerID:       borrowerID,
		AccountOfficerID: actor.ID,
		PrincipalAmount:  req.PrincipalAmount,
		InterestRate:     rate,
		InterestAmount:   interest,
		Expenses:         req.Expenses,
		TotalAmount:      total,
		DailyRepayment:   utils.CalculateDailyRepayment(total, durationDays),
		DurationDays:     durationDays,
		StartDate:        startDate,
		ExpectedEndDate:  utils.ExpectedEndDate(startDate, durationDays),
		Status:           domain.LoanStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.loanRepo.Create(ctx, s.store.DB(), loan); err != nil {
		return nil, nil, bizErrors.WrapStorageFailure(err)
	}

	return loan, ComputeSchedule(loan), nil
}

// GetLoan returns a loan with its ledger totals.
func (s *LoanService) GetLoan(ctx context.Context, actor Actor, id uuid.UUID) (*domain.LoanResponse, error) {
	loan, err := s.getOwnedLoan(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	total, err := s.paymentRepo.TotalCollected(ctx, s.store.DB(), loan.ID)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}

	return &domain.LoanResponse{
		Loan:               loan,
		TotalPayments:      total,
		OutstandingBalance: loan.TotalAmount.Sub(total),
	}, nil
}

// GetSchedule returns the derived payment schedule for a loan.
func (s *LoanService) GetSchedule(ctx context.Context, actor Actor, id uuid.UUID) ([]domain.ScheduleEntry, error) {
	loan, err := s.getOwnedLoan(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ComputeSchedule(loan), nil
}

// ListLoans returns loans visible to the actor, optionally filtered by
// status and borrower.
func (s *LoanService) ListLoans(ctx context.Context, actor Actor, status, borrowerID string) ([]*domain.Loan, error) {
	filter := repository.LoanFilter{}

	if status != "" {
		parsed, err := domain.ParseLoanStatus(status)
		if err != nil {
			return nil, bizErrors.WrapInvalidInput(err.Error())
		}
		filter.Status = &parsed
	}
	if borrowerID != "" {
		id, err := uuid.Parse(borrowerID)
		if err != nil {
			return nil, bizErrors.WrapInvalidInput("borrower_id must be a valid UUID")
		}
		filter.BorrowerID = &id
	}
	if !actor.IsAdmin() {
		filter.OfficerID = &actor.ID
	}

	loans, err := s.loanRepo.List(ctx, s.store.DB(), filter)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	return loans, nil
}

// ReviseFinancials changes the rate and/or expenses of a still-active loan
// and re-derives the dependent amounts. The re-derivation is the only
// permitted mutation of total_amount and daily_repayment.
func (s *LoanService) ReviseFinancials(ctx context.Context, actor Actor, id uuid.UUID, req *domain.ReviseFinancialsRequest) (*domain.Loan, error) {
	if req.InterestRate == nil && req.Expenses == nil {
		return nil, bizErrors.WrapInvalidInput("nothing to update")
	}
	if req.InterestRate != nil && req.InterestRate.IsNegative() {
		return nil, bizErrors.WrapInvalidInput("interest rate must be 0 or greater")
	}
	if req.Expenses != nil && req.Expenses.IsNegative() {
		return nil, bizErrors.WrapInvalidInput("expenses must be 0 or greater")
	}

	var revised *domain.Loan
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		loan, err := s.loanRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return bizErrors.WrapLoanNotFound(id.String())
			}
			return bizErrors.WrapStorageFailure(err)
		}

		if !actor.IsAdmin() && loan.AccountOfficerID != actor.ID {
			return bizErrors.WrapAccessDenied("loan belongs to another officer")
		}

		if loan.Status != domain.LoanStatusActive {
			return bizErrors.WrapInvalidState("can only update active loans")
		}

		if req.InterestRate != nil {
			loan.InterestRate = *req.InterestRate
		}
		if req.Expenses != nil {
			loan.Expenses = *req.Expenses
		}

		loan.InterestAmount = utils.CalculateInterest(loan.PrincipalAmount, loan.InterestRate)
		loan.TotalAmount = utils.CalculateTotalAmount(loan.PrincipalAmount, loan.InterestAmount, loan.Expenses)
		loan.DailyRepayment = utils.CalculateDailyRepayment(loan.TotalAmount, loan.DurationDays)

		if err := s.loanRepo.Update(ctx, tx, loan); err != nil {
			return bizErrors.WrapStorageFailure(err)
		}

		revised = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return revised, nil
}

// SetStatus applies an explicit status transition. This is the only code
// path into the defaulted state.
func (s *LoanService) SetStatus(ctx context.Context, actor Actor, id uuid.UUID, status string) (*domain.Loan, error) {
	newStatus, err := domain.ParseLoanStatus(status)
	if err != nil {
		return nil, bizErrors.WrapInvalidInput(err.Error())
	}

	var updated *domain.Loan
	err = s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		loan, err := s.loanRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return bizErrors.WrapLoanNotFound(id.String())
			}
			return bizErrors.WrapStorageFailure(err)
		}

		if !actor.IsAdmin() && loan.AccountOfficerID != actor.ID {
			return bizErrors.WrapAccessDenied("loan belongs to another officer")
		}

		loan.Status = newStatus
		if newStatus == domain.LoanStatusCompleted && loan.ActualEndDate == nil {
			today := s.clock.Today()
			loan.ActualEndDate = &today
		}

		if err := s.loanRepo.Update(ctx, tx, loan); err != nil {
			return bizErrors.WrapStorageFailure(err)
		}

		updated = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteLoan removes a loan and its payments in one transaction.
func (s *LoanService) DeleteLoan(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		loan, err := s.loanRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return bizErrors.WrapLoanNotFound(id.String())
			}
			return bizErrors.WrapStorageFailure(err)
		}

		if !actor.IsAdmin() && loan.AccountOfficerID != actor.ID {
			return bizErrors.WrapAccessDenied("loan belongs to another officer")
		}

		// FK is ON DELETE CASCADE as well; the explicit delete keeps the
		// ledger removal visible in one place.
		payments, err := s.paymentRepo.ListByLoan(ctx, tx, id)
		if err != nil {
			return bizErrors.WrapStorageFailure(err)
		}
		for _, p := range payments {
			if err := s.paymentRepo.Delete(ctx, tx, p.ID); err != nil {
				return bizErrors.WrapStorageFailure(err)
			}
		}

		if err := s.loanRepo.Delete(ctx, tx, id); err != nil {
			return bizErrors.WrapStorageFailure(err)
		}
		return nil
	})
}

func (s *LoanService) getOwnedLoan(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bizErrors.WrapLoanNotFound(id.String())
		}
		return nil, bizErrors.WrapStorageFailure(err)
	}

	if !actor.IsAdmin() && loan.AccountOfficerID != actor.ID {
		return nil, bizErrors.WrapAccessDenied("loan belongs to another officer")
	}
	return loan, nil
}
