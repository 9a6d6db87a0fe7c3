package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lookman/lending-engine/internal/domain"
)

const borrowerColumns = `id, name, phone, address, created_by, created_at, updated_at`

type borrowerRepository struct{}

func NewBorrowerRepository() BorrowerRepository {
	return &borrowerRepository{}
}

func (r *borrowerRepository) Create(ctx context.Context, q sqlx.ExtContext, borrower *domain.Borrower) error {
	query := `
		INSERT INTO borrowers (id, name, phone, address, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.ExecContext(ctx, query,
		borrower.ID,
		borrower.Name,
		borrower.Phone,
		borrower.Address,
		borrower.CreatedBy,
		borrower.CreatedAt,
		borrower.UpdatedAt,
	)

	return err
}

func (r *borrowerRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.Borrower, error) {
	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE id = $1`

	var borrower domain.Borrower
	if err := sqlx.GetContext(ctx, q, &borrower, query, id); err != nil {
		return nil, err
	}
	return &borrower, nil
}

func (r *borrowerRepository) Update(ctx context.Context, q sqlx.ExtContext, borrower *domain.Borrower) error {
	query := `
		UPDATE borrowers
		SET name = $2, phone = $3, address = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := q.ExecContext(ctx, query,
		borrower.ID,
		borrower.Name,
		borrower.Phone,
		borrower.Address,
		time.Now(),
	)

	return err
}

func (r *borrowerRepository) Delete(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error {
	_, err := q.ExecContext(ctx, `DELETE FROM borrowers WHERE id = $1`, id)
	return err
}

func (r *borrowerRepository) List(ctx context.Context, q sqlx.ExtContext, officerID *uuid.UUID) ([]*domain.Borrower, error) {
	query := `SELECT ` + borrowerColumns + ` FROM borrowers`
	args := []interface{}{}

	if officerID != nil {
		query += ` WHERE created_by = $1`
		args = append(args, *officerID)
	}
	query += ` ORDER BY name`

	var borrowers []*domain.Borrower
	if err := sqlx.SelectContext(ctx, q, &borrowers, query, args...); err != nil {
		return nil, err
	}
	return borrowers, nil
}

func (r *borrowerRepository) CountLoans(ctx context.Context, q sqlx.ExtContext, borrowerID uuid.UUID) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, `SELECT COUNT(*) FROM loans WHERE borrower_id = $1`, borrowerID); err != nil {
		return 0, err
	}
	return count, nil
}
