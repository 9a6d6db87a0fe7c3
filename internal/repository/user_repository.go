package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lookman/lending-engine/internal/domain"
)

const userColumns = `id, username, password_hash, full_name, email, phone, role,
	is_active, is_first_login, created_at, updated_at`

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, q sqlx.ExtContext, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, full_name, email, phone, role,
			is_active, is_first_login, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.Email,
		user.Phone,
		user.Role,
		user.IsActive,
		user.IsFirstLogin,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

func (r *userRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user domain.User
	if err := sqlx.GetContext(ctx, q, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, q sqlx.ExtContext, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user domain.User
	if err := sqlx.GetContext(ctx, q, &user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, q sqlx.ExtContext, user *domain.User) error {
	query := `
		UPDATE users
		SET password_hash = $2, full_name = $3, email = $4, phone = $5, role = $6,
			is_active = $7, is_first_login = $8, updated_at = $9
		WHERE id = $1
	`

	_, err := q.ExecContext(ctx, query,
		user.ID,
		user.PasswordHash,
		user.FullName,
		user.Email,
		user.Phone,
		user.Role,
		user.IsActive,
		user.IsFirstLogin,
		time.Now(),
	)

	return err
}

func (r *userRepository) List(ctx context.Context, q sqlx.ExtContext) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`

	var users []*domain.User
	if err := sqlx.SelectContext(ctx, q, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListActiveOfficers(ctx context.Context, q sqlx.ExtContext) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE role = $1 AND is_active = TRUE ORDER BY username`

	var users []*domain.User
	if err := sqlx.SelectContext(ctx, q, &users, query, domain.RoleAccountOfficer); err != nil {
		return nil, err
	}
	return users, nil
}
