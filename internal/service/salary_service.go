package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/repository"
	bizErrors "github.com/lookman/lending-engine/pkg/errors"
	"github.com/lookman/lending-engine/pkg/utils"
)

// SalaryService settles monthly officer pay: the configured base salary
// plus a commission on everything the officer's loan book collected in
// the month. A (officer, period) pair settles at most once; re-running a
// period only picks up officers who were skipped or added since.
type SalaryService struct {
	store       repository.Store
	salaryRepo  repository.SalaryRepository
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	clock       Clock

	baseSalary     decimal.Decimal
	commissionRate decimal.Decimal
}

func NewSalaryService(
	store repository.Store,
	salaryRepo repository.SalaryRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	clock Clock,
	baseSalary decimal.Decimal,
	commissionRate decimal.Decimal,
) *SalaryService {
	return &SalaryService{
		store:          store,
		salaryRepo:     salaryRepo,
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		clock:          clock,
		baseSalary:     baseSalary,
		commissionRate: commissionRate,
	}
}

// SettlePeriod calculates salaries for every active officer for the given
// YYYY-MM period, skipping officers already settled. Returns the number of
// new calculations.
func (s *SalaryService) SettlePeriod(ctx context.Context, period string) (int, error) {
	from, to, err := utils.ParsePeriod(period)
	if err != nil {
		return 0, bizErrors.WrapInvalidInput("invalid period format, use YYYY-MM")
	}

	var settled int
	err = s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		officers, err := s.userRepo.ListActiveOfficers(ctx, tx)
		if err != nil {
			return bizErrors.WrapStorageFailure(err)
		}

		for _, officer := range officers {
			if _, err := s.salaryRepo.GetByOfficerAndPeriod(ctx, tx, officer.ID, period); err == nil {
				continue
			} else if !errors.Is(err, sql.ErrNoRows) {
				return bizErrors.WrapStorageFailure(err)
			}

			totals, err := s.paymentRepo.PeriodCollections(ctx, tx, &officer.ID, from, to)
			if err != nil {
				return bizErrors.WrapStorageFailure(err)
			}

			calc := buildSalaryCalculation(officer.ID, period, s.baseSalary, s.commissionRate, totals.Collected)
			if err := s.salaryRepo.Create(ctx, tx, calc); err != nil {
				return bizErrors.WrapStorageFailure(err)
			}
			settled++

			log.Printf("settled salary for %s period %s: collections %s, commission %s, total %s",
				officer.Username, period, calc.TotalCollections, calc.CommissionAmount, calc.TotalSalary)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return settled, nil
}

// SettlePreviousMonth settles the month before today, the period the
// scheduler closes on the 1st.
func (s *SalaryService) SettlePreviousMonth(ctx context.Context) (int, error) {
	today := s.clock.Today()
	previous := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)
	return s.SettlePeriod(ctx, utils.FormatPeriod(previous))
}

// ListForPeriod returns the settled calculations for a YYYY-MM period.
// Admin only, enforced by middleware.
func (s *SalaryService) ListForPeriod(ctx context.Context, period string) ([]*domain.SalaryCalculation, error) {
	if _, _, err := utils.ParsePeriod(period); err != nil {
		return nil, bizErrors.WrapInvalidInput("invalid period format, use YYYY-MM")
	}

	calcs, err := s.salaryRepo.ListByPeriod(ctx, s.store.DB(), period)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	return calcs, nil
}

func buildSalaryCalculation(officerID uuid.UUID, period string, base, rate, collections decimal.Decimal) *domain.SalaryCalculation {
	commission := collections.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	return &domain.SalaryCalculation{
		ID:               uuid.New(),
		OfficerID:        officerID,
		Period:           period,
		BaseSalary:       base,
		CommissionRate:   rate,
		TotalCollections: collections,
		CommissionAmount: commission,
		TotalSalary:      base.Add(commission).Round(2),
		CreatedAt:        time.Now(),
	}
}
