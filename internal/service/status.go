package service

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/repository"
	bizErrors "github.com/lookman/lending-engine/pkg/errors"
)

// applyStatus derives a loan's status from the ledger total and the current
// date, mutating the loan in place. The completion check runs first: a
// fully-paid loan is never marked overdue, however late the money arrived.
// actual_end_date is set once and never overwritten. The defaulted status is
// terminal and externally assigned; it is never derived here.
func applyStatus(loan *domain.Loan, totalCollected decimal.Decimal, today time.Time) {
	if loan.Status == domain.LoanStatusDefaulted {
		return
	}

	switch {
	case totalCollected.GreaterThanOrEqual(loan.TotalAmount):
		loan.Status = domain.LoanStatusCompleted
		if loan.ActualEndDate == nil {
			end := today
			loan.ActualEndDate = &end
		}
	case today.After(loan.ExpectedEndDate):
		loan.Status = domain.LoanStatusOverdue
	default:
		loan.Status = domain.LoanStatusActive
	}
}

// StatusService owns the loan status state machine.
type StatusService struct {
	store       repository.Store
	loanRepo    repository.LoanRepository
	paymentRepo repository.PaymentRepository
	clock       Clock
}

func NewStatusService(
	store repository.Store,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	clock Clock,
) *StatusService {
	return &StatusService{
		store:       store,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		clock:       clock,
	}
}

// Recompute re-derives the loan's status from its ledger and persists the
// result. Must run on the same queryable as the ledger mutation that
// triggered it so both commit or roll back together.
func (s *StatusService) Recompute(ctx context.Context, q sqlx.ExtContext, loan *domain.Loan) error {
	total, err := s.paymentRepo.TotalCollected(ctx, q, loan.ID)
	if err != nil {
		return bizErrors.WrapStorageFailure(err)
	}

	applyStatus(loan, total, s.clock.Today())

	if err := s.loanRepo.Update(ctx, q, loan); err != nil {
		return bizErrors.WrapStorageFailure(err)
	}
	return nil
}

// Sweep flags lapsed active loans as overdue. Invoked once per day by the
// scheduler; running it again on the same day finds nothing to do. Unlike
// Recompute it never completes a loan: its candidates are by definition
// still active.
func (s *StatusService) Sweep(ctx context.Context) (int, error) {
	today := s.clock.Today()

	var flagged int
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		loans, err := s.loanRepo.ListLapsedActive(ctx, tx, today)
		if err != nil {
			return bizErrors.WrapStorageFailure(err)
		}

		for _, loan := range loans {
			loan.Status = domain.LoanStatusOverdue
			if err := s.loanRepo.Update(ctx, tx, loan); err != nil {
				return bizErrors.WrapStorageFailure(err)
			}
			flagged++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if flagged > 0 {
		log.Printf("overdue sweep: flagged %d loans", flagged)
	}
	return flagged, nil
}
