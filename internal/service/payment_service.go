package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/repository"
	bizErrors "github.com/lookman/lending-engine/pkg/errors"
	"github.com/lookman/lending-engine/pkg/utils"
)

// PaymentService is the payment ledger. Every ledger mutation locks the
// owning loan row, re-derives the loan status and commits both writes as
// one unit.
type PaymentService struct {
	store       repository.Store
	loanRepo    repository.LoanRepository
	paymentRepo repository.PaymentRepository
	status      *StatusService
	redis       *redis.Client
	cacheTTL    time.Duration
	clock       Clock
}

func NewPaymentService(
	store repository.Store,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	status *StatusService,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	clock Clock,
) *PaymentService {
	return &PaymentService{
		store:       store,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		status:      status,
		redis:       redisClient,
		cacheTTL:    cacheTTL,
		clock:       clock,
	}
}

// RecordPayment appends a collection to a loan's ledger. At most one
// payment may exist per (loan, payment_day); violating that fails with
// DuplicateEntry and leaves the first payment and the loan untouched.
func (s *PaymentService) RecordPayment(ctx context.Context, actor Actor, req *domain.RecordPaymentRequest) (*domain.Payment, error) {
	loanID, err := uuid.Parse(req.LoanID)
	if err != nil {
		return nil, bizErrors.WrapInvalidInput("loan_id must be a valid UUID")
	}

	if req.ActualAmount.IsNegative() {
		return nil, bizErrors.WrapInvalidInput("payment amount must be 0 or greater")
	}

	if req.PaymentDay < 1 {
		return nil, bizErrors.WrapInvalidInput("payment day must be 1 or greater")
	}

	paymentDate, err := utils.ParseDate(req.PaymentDate)
	if err != nil {
		return nil, bizErrors.WrapInvalidInput("invalid payment date format, use YYYY-MM-DD")
	}

	var payment *domain.Payment
	err = s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		loan, err := s.loanRepo.GetByIDForUpdate(ctx, tx, loanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return bizErrors.WrapLoanNotFound(req.LoanID)
			}
			return bizErrors.WrapStorageFailure(err)
		}

		if !actor.IsAdmin() && loan.AccountOfficerID != actor.ID {
			return bizErrors.WrapAccessDenied("loan belongs to another officer")
		}

		if _, err := s.paymentRepo.GetByLoanAndDay(ctx, tx, loanID, req.PaymentDay); err == nil {
			return bizErrors.WrapDuplicatePayment(req.LoanID, req.PaymentDay)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return bizErrors.WrapStorageFailure(err)
		}

		var notes *string
		if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
			notes = &trimmed
		}

		now := time.Now()
		payment = &domain.Payment{
			ID:                uuid.New(),
			LoanID:            loanID,
			PaymentDate:       paymentDate,
			ExpectedAmount:    loan.DailyRepayment,
			ActualAmount:      req.ActualAmount,
			PaymentDay:        req.PaymentDay,
			IsWeekendAdjusted: utils.IsWeekend(paymentDate),
			RecordedBy:        actor.ID,
			Notes:             notes,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return bizErrors.WrapStorageFailure(err)
		}

		return s.status.Recompute(ctx, tx, loan)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOutstanding(ctx, loanID)
	return payment, nil
}

// UpdatePayment applies the allow-listed payment changes, then recomputes
// the owning loan's status in the same transaction.
func (s *PaymentService) UpdatePayment(ctx context.Context, actor Actor, id uuid.UUID, req *domain.UpdatePaymentRequest) (*domain.Payment, error) {
	if req.ActualAmount != nil && req.ActualAmount.IsNegative() {
		return nil, bizErrors.WrapInvalidInput("payment amount must be 0 or greater")
	}

	var updated *domain.Payment
	var loanID uuid.UUID
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		payment, err := s.paymentRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return bizErrors.WrapPaymentNotFound(id.String())
			}
			return bizErrors.WrapStorageFailure(err)
		}

		loan, err := s.loanRepo.GetByIDForUpdate(ctx, tx, payment.LoanID)
		if err != nil {
			return bizErrors.WrapStorageFailure(err)
		}
		if !actor.IsAdmin() && loan.AccountOfficerID != actor.ID {
			return bizErrors.WrapAccessDenied("loan belongs to another officer")
		}

		if req.ActualAmount != nil {
			payment.ActualAmount = *req.ActualAmount
		}
		if req.Notes != nil {
			if trimmed := strings.TrimSpace(*req.Notes); trimmed != "" {
				payment.Notes = &trimmed
			} else {
				payment.Notes = nil
			}
		}

		if err := s.paymentRepo.Update(ctx, tx, payment); err != nil {
			return bizErrors.WrapStorageFailure(err)
		}

		if err := s.status.Recompute(ctx, tx, loan); err != nil {
			return err
		}

		updated = payment
		loanID = loan.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOutstanding(ctx, loanID)
	return updated, nil
}

// DeletePayment removes a ledger row and recomputes the owning loan's
// status in the same transaction.
func (s *PaymentService) DeletePayment(ctx context.Context, actor Actor, id uuid.UUID) error {
	var loanID uuid.UUID
	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		payment, err := s.paymentRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return bizErrors.WrapPaymentNotFound(id.String())
			}
			return bizErrors.WrapStorageFailure(err)
		}

		loan, err := s.loanRepo.GetByIDForUpdate(ctx, tx, payment.LoanID)
		if err != nil {
			return bizErrors.WrapStorageFailure(err)
		}
		if !actor.IsAdmin() && loan.AccountOfficerID != actor.ID {
			return bizErrors.WrapAccessDenied("loan belongs to another officer")
		}

		if err := s.paymentRepo.Delete(ctx, tx, id); err != nil {
			return bizErrors.WrapStorageFailure(err)
		}

		if err := s.status.Recompute(ctx, tx, loan); err != nil {
			return err
		}

		loanID = loan.ID
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateOutstanding(ctx, loanID)
	return nil
}

// GetPayment returns a single payment the actor may see.
func (s *PaymentService) GetPayment(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bizErrors.WrapPaymentNotFound(id.String())
		}
		return nil, bizErrors.WrapStorageFailure(err)
	}

	loan, err := s.loanRepo.GetByID(ctx, s.store.DB(), payment.LoanID)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	if !actor.IsAdmin() && loan.AccountOfficerID != actor.ID {
		return nil, bizErrors.WrapAccessDenied("loan belongs to another officer")
	}

	return payment, nil
}

// ListPayments returns payments visible to the actor, optionally filtered
// by loan and date.
func (s *PaymentService) ListPayments(ctx context.Context, actor Actor, loanID, paymentDate string) ([]*domain.Payment, error) {
	filter := repository.PaymentFilter{}

	if loanID != "" {
		id, err := uuid.Parse(loanID)
		if err != nil {
			return nil, bizErrors.WrapInvalidInput("loan_id must be a valid UUID")
		}
		filter.LoanID = &id
	}
	if paymentDate != "" {
		date, err := utils.ParseDate(paymentDate)
		if err != nil {
			return nil, bizErrors.WrapInvalidInput("invalid payment date format, use YYYY-MM-DD")
		}
		filter.PaymentDate = &date
	}
	if !actor.IsAdmin() {
		filter.OfficerID = &actor.ID
	}

	payments, err := s.paymentRepo.List(ctx, s.store.DB(), filter)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	return payments, nil
}

// TodayPayments returns today's collections with a summary.
func (s *PaymentService) TodayPayments(ctx context.Context, actor Actor) ([]*domain.Payment, *domain.DailyCollectionSummary, error) {
	today := s.clock.Today()

	filter := repository.PaymentFilter{PaymentDate: &today}
	if !actor.IsAdmin() {
		filter.OfficerID = &actor.ID
	}

	payments, err := s.paymentRepo.List(ctx, s.store.DB(), filter)
	if err != nil {
		return nil, nil, bizErrors.WrapStorageFailure(err)
	}

	summary := summarize(utils.FormatDate(today), payments)
	return payments, summary, nil
}

// TotalCollected sums all amounts collected against a loan.
func (s *PaymentService) TotalCollected(ctx context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	total, err := s.paymentRepo.TotalCollected(ctx, s.store.DB(), loanID)
	if err != nil {
		return decimal.Zero, bizErrors.WrapStorageFailure(err)
	}
	return total, nil
}

// OutstandingBalance is total_amount minus everything collected. Negative
// when overpaid; not clamped. Cached in redis until the next ledger
// mutation on the loan.
func (s *PaymentService) OutstandingBalance(ctx context.Context, actor Actor, loanID uuid.UUID) (decimal.Decimal, error) {
	cacheKey := outstandingKey(loanID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			if outstanding, err := decimal.NewFromString(cached); err == nil {
				return outstanding, nil
			}
		}
	}

	loan, err := s.loanRepo.GetByID(ctx, s.store.DB(), loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, bizErrors.WrapLoanNotFound(loanID.String())
		}
		return decimal.Zero, bizErrors.WrapStorageFailure(err)
	}
	if !actor.IsAdmin() && loan.AccountOfficerID != actor.ID {
		return decimal.Zero, bizErrors.WrapAccessDenied("loan belongs to another officer")
	}

	total, err := s.paymentRepo.TotalCollected(ctx, s.store.DB(), loanID)
	if err != nil {
		return decimal.Zero, bizErrors.WrapStorageFailure(err)
	}

	outstanding := loan.TotalAmount.Sub(total)

	if s.redis != nil {
		if err := s.redis.Set(ctx, cacheKey, outstanding.String(), s.cacheTTL).Err(); err != nil {
			log.Printf("cache outstanding for loan %s: %v", loanID, err)
		}
	}

	return outstanding, nil
}

func (s *PaymentService) invalidateOutstanding(ctx context.Context, loanID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, outstandingKey(loanID)).Err(); err != nil {
		log.Printf("invalidate outstanding cache for loan %s: %v", loanID, err)
	}
}

func outstandingKey(loanID uuid.UUID) string {
	return fmt.Sprintf("outstanding:%s", loanID)
}

func summarize(date string, payments []*domain.Payment) *domain.DailyCollectionSummary {
	summary := &domain.DailyCollectionSummary{
		Date:           date,
		TotalPayments:  len(payments),
		TotalExpected:  decimal.Zero,
		TotalCollected: decimal.Zero,
		CollectionRate: decimal.Zero,
	}

	for _, p := range payments {
		summary.TotalExpected = summary.TotalExpected.Add(p.ExpectedAmount)
		summary.TotalCollected = summary.TotalCollected.Add(p.ActualAmount)
	}

	if summary.TotalExpected.IsPositive() {
		summary.CollectionRate = summary.TotalCollected.
			Div(summary.TotalExpected).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return summary
}
