package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/lookman/lending-engine/internal/domain"
)

const paymentColumns = `id, loan_id, payment_date, expected_amount, actual_amount,
	payment_day, is_weekend_adjusted, recorded_by, notes, created_at, updated_at`

type paymentRepository struct{}

func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(ctx context.Context, q sqlx.ExtContext, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, loan_id, payment_date, expected_amount, actual_amount,
			payment_day, is_weekend_adjusted, recorded_by, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.PaymentDate,
		payment.ExpectedAmount,
		payment.ActualAmount,
		payment.PaymentDay,
		payment.IsWeekendAdjusted,
		payment.RecordedBy,
		payment.Notes,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var payment domain.Payment
	if err := sqlx.GetContext(ctx, q, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) GetByLoanAndDay(ctx context.Context, q sqlx.ExtContext, loanID uuid.UUID, day int) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE loan_id = $1 AND payment_day = $2`

	var payment domain.Payment
	if err := sqlx.GetContext(ctx, q, &payment, query, loanID, day); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, q sqlx.ExtContext, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET actual_amount = $2, notes = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := q.ExecContext(ctx, query, payment.ID, payment.ActualAmount, payment.Notes, time.Now())
	return err
}

func (r *paymentRepository) Delete(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error {
	_, err := q.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return err
}

func (r *paymentRepository) ListByLoan(ctx context.Context, q sqlx.ExtContext, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE loan_id = $1 ORDER BY payment_day`

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, q, &payments, query, loanID); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) List(ctx context.Context, q sqlx.ExtContext, filter PaymentFilter) ([]*domain.Payment, error) {
	query := `SELECT p.` + joinColumns() + `
		FROM payments p
		JOIN loans l ON l.id = p.loan_id
		WHERE 1=1`
	args := []interface{}{}

	if filter.LoanID != nil {
		args = append(args, *filter.LoanID)
		query += ` AND p.loan_id = $` + strconv.Itoa(len(args))
	}
	if filter.PaymentDate != nil {
		args = append(args, *filter.PaymentDate)
		query += ` AND p.payment_date = $` + strconv.Itoa(len(args))
	}
	if filter.OfficerID != nil {
		args = append(args, *filter.OfficerID)
		query += ` AND l.account_officer_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY p.payment_date DESC, p.created_at DESC`

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, q, &payments, query, args...); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) TotalCollected(ctx context.Context, q sqlx.ExtContext, loanID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(actual_amount), 0) FROM payments WHERE loan_id = $1`

	var total decimal.Decimal
	if err := sqlx.GetContext(ctx, q, &total, query, loanID); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *paymentRepository) OfficerCollections(ctx context.Context, q sqlx.ExtContext, date time.Time, officerID *uuid.UUID) ([]domain.OfficerCollection, error) {
	query := `
		SELECT p.recorded_by AS officer_id,
			u.full_name AS officer_name,
			COALESCE(SUM(p.expected_amount), 0) AS expected,
			COALESCE(SUM(p.actual_amount), 0) AS collected,
			COUNT(p.id) AS payment_count
		FROM payments p
		JOIN users u ON u.id = p.recorded_by
		JOIN loans l ON l.id = p.loan_id
		WHERE p.payment_date = $1
	`
	args := []interface{}{date}

	if officerID != nil {
		args = append(args, *officerID)
		query += ` AND l.account_officer_id = $2`
	}
	query += ` GROUP BY p.recorded_by, u.full_name ORDER BY u.full_name`

	var rows []domain.OfficerCollection
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *paymentRepository) PeriodCollections(ctx context.Context, q sqlx.ExtContext, officerID *uuid.UUID, from, to time.Time) (domain.PeriodCollection, error) {
	query := `
		SELECT COALESCE(SUM(p.expected_amount), 0) AS expected,
			COALESCE(SUM(p.actual_amount), 0) AS collected
		FROM payments p
		JOIN loans l ON l.id = p.loan_id
		WHERE p.payment_date BETWEEN $1 AND $2
	`
	args := []interface{}{from, to}

	if officerID != nil {
		args = append(args, *officerID)
		query += ` AND l.account_officer_id = $3`
	}

	var totals domain.PeriodCollection
	if err := sqlx.GetContext(ctx, q, &totals, query, args...); err != nil {
		return domain.PeriodCollection{}, err
	}
	return totals, nil
}

// payments carry a p. prefix when joined against loans
func joinColumns() string {
	return `id, p.loan_id, p.payment_date, p.expected_amount, p.actual_amount,
		p.payment_day, p.is_weekend_adjusted, p.recorded_by, p.notes, p.created_at, p.updated_at`
}
