package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/lookman/lending-engine/internal/domain"
)

const salaryColumns = `id, officer_id, calculation_period, base_salary, commission_rate,
	total_collections, commission_amount, total_salary, created_at`

type salaryRepository struct{}

func NewSalaryRepository() SalaryRepository {
	return &salaryRepository{}
}

func (r *salaryRepository) Create(ctx context.Context, q sqlx.ExtContext, calc *domain.SalaryCalculation) error {
	query := `
		INSERT INTO salary_calculations (id, officer_id, calculation_period, base_salary,
			commission_rate, total_collections, commission_amount, total_salary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.ExecContext(ctx, query,
		calc.ID,
		calc.OfficerID,
		calc.Period,
		calc.BaseSalary,
		calc.CommissionRate,
		calc.TotalCollections,
		calc.CommissionAmount,
		calc.TotalSalary,
		calc.CreatedAt,
	)

	return err
}

func (r *salaryRepository) GetByOfficerAndPeriod(ctx context.Context, q sqlx.ExtContext, officerID uuid.UUID, period string) (*domain.SalaryCalculation, error) {
	query := `SELECT ` + salaryColumns + ` FROM salary_calculations
		WHERE officer_id = $1 AND calculation_period = $2`

	var calc domain.SalaryCalculation
	if err := sqlx.GetContext(ctx, q, &calc, query, officerID, period); err != nil {
		return nil, err
	}
	return &calc, nil
}

func (r *salaryRepository) ListByPeriod(ctx context.Context, q sqlx.ExtContext, period string) ([]*domain.SalaryCalculation, error) {
	query := `SELECT ` + salaryColumns + ` FROM salary_calculations
		WHERE calculation_period = $1 ORDER BY created_at`

	var calcs []*domain.SalaryCalculation
	if err := sqlx.SelectContext(ctx, q, &calcs, query, period); err != nil {
		return nil, err
	}
	return calcs, nil
}

func (r *salaryRepository) TotalForPeriod(ctx context.Context, q sqlx.ExtContext, period string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_salary), 0) FROM salary_calculations
		WHERE calculation_period = $1`

	var total decimal.Decimal
	if err := sqlx.GetContext(ctx, q, &total, query, period); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
