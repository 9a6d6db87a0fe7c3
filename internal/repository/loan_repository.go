package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lookman/lending-engine/internal/domain"
)

const loanColumns = `id, borrower_id, account_officer_id, principal_amount, interest_rate,
	interest_amount, expenses, total_amount, daily_repayment, loan_duration_days,
	start_date, expected_end_date, actual_end_date, status, created_at, updated_at`

type loanRepository struct{}

func NewLoanRepository() LoanRepository {
	return &loanRepository{}
}

func (r *loanRepository) Create(ctx context.Context, q sqlx.ExtContext, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, borrower_id, account_officer_id, principal_amount, interest_rate,
			interest_amount, expenses, total_amount, daily_repayment, loan_duration_days,
			start_date, expected_end_date, actual_end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := q.ExecContext(ctx, query,
		loan.ID,
		loan.BorrowerID,
		loan.AccountOfficerID,
		loan.PrincipalAmount,
		loan.InterestRate,
		loan.InterestAmount,
		loan.Expenses,
		loan.TotalAmount,
		loan.DailyRepayment,
		loan.DurationDays,
		loan.StartDate,
		loan.ExpectedEndDate,
		loan.ActualEndDate,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, q, &loan, query, id); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, q, &loan, query, id); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) GetActiveByBorrower(ctx context.Context, q sqlx.ExtContext, borrowerID uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE borrower_id = $1 AND status = $2 LIMIT 1`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, q, &loan, query, borrowerID, domain.LoanStatusActive); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, q sqlx.ExtContext, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET interest_rate = $2, interest_amount = $3, expenses = $4, total_amount = $5,
			daily_repayment = $6, actual_end_date = $7, status = $8, updated_at = $9
		WHERE id = $1
	`

	_, err := q.ExecContext(ctx, query,
		loan.ID,
		loan.InterestRate,
		loan.InterestAmount,
		loan.Expenses,
		loan.TotalAmount,
		loan.DailyRepayment,
		loan.ActualEndDate,
		loan.Status,
		time.Now(),
	)

	return err
}

func (r *loanRepository) List(ctx context.Context, q sqlx.ExtContext, filter LoanFilter) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.BorrowerID != nil {
		args = append(args, *filter.BorrowerID)
		query += ` AND borrower_id = $` + strconv.Itoa(len(args))
	}
	if filter.OfficerID != nil {
		args = append(args, *filter.OfficerID)
		query += ` AND account_officer_id = $` + strconv.Itoa(len(args))
	}
	if filter.StartFrom != nil {
		args = append(args, *filter.StartFrom)
		query += ` AND start_date >= $` + strconv.Itoa(len(args))
	}
	if filter.StartTo != nil {
		args = append(args, *filter.StartTo)
		query += ` AND start_date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, q, &loans, query, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) ListLapsedActive(ctx context.Context, q sqlx.ExtContext, today time.Time) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + `
		FROM loans
		WHERE status = $1 AND expected_end_date < $2
		ORDER BY expected_end_date
	`

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, q, &loans, query, domain.LoanStatusActive, today); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) Delete(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error {
	_, err := q.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	return err
}
