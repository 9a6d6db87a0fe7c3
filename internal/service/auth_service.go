package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lookman/lending-engine/internal/auth"
	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/repository"
	bizErrors "github.com/lookman/lending-engine/pkg/errors"
)

// AuthService handles staff login and account management.
type AuthService struct {
	store    repository.Store
	userRepo repository.UserRepository
	jwt      *auth.JWTManager
}

func NewAuthService(store repository.Store, userRepo repository.UserRepository, jwt *auth.JWTManager) *AuthService {
	return &AuthService{store: store, userRepo: userRepo, jwt: jwt}
}

// Login validates credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, s.store.DB(), req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bizErrors.WrapAccessDenied("invalid username or password")
		}
		return nil, bizErrors.WrapStorageFailure(err)
	}

	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, bizErrors.WrapAccessDenied("invalid username or password")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, bizErrors.NewBusinessError(bizErrors.ErrCodeStorageFailure, "failed to issue token", err)
	}

	return &domain.LoginResponse{
		Token:      token,
		User:       user,
		FirstLogin: user.IsFirstLogin,
	}, nil
}

// ChangePassword verifies the current password before replacing it.
func (s *AuthService) ChangePassword(ctx context.Context, actor Actor, req *domain.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, s.store.DB(), actor.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return bizErrors.WrapUserNotFound(actor.ID.String())
		}
		return bizErrors.WrapStorageFailure(err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return bizErrors.WrapAccessDenied("current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return bizErrors.NewBusinessError(bizErrors.ErrCodeStorageFailure, "failed to hash password", err)
	}

	user.PasswordHash = hash
	user.IsFirstLogin = false

	if err := s.userRepo.Update(ctx, s.store.DB(), user); err != nil {
		return bizErrors.WrapStorageFailure(err)
	}
	return nil
}

// GetProfile returns the acting user's record.
func (s *AuthService) GetProfile(ctx context.Context, actor Actor) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, s.store.DB(), actor.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bizErrors.WrapUserNotFound(actor.ID.String())
		}
		return nil, bizErrors.WrapStorageFailure(err)
	}
	return user, nil
}

// CreateUser registers a staff account. Admin only, enforced by middleware.
func (s *AuthService) CreateUser(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	role, err := domain.ParseUserRole(req.Role)
	if err != nil {
		return nil, bizErrors.WrapInvalidInput(err.Error())
	}

	if _, err := s.userRepo.GetByUsername(ctx, s.store.DB(), req.Username); err == nil {
		return nil, bizErrors.NewBusinessError(bizErrors.ErrCodeDuplicateEntry, "username already taken", bizErrors.ErrDuplicateEntry)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, bizErrors.WrapStorageFailure(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, bizErrors.NewBusinessError(bizErrors.ErrCodeStorageFailure, "failed to hash password", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
		IsFirstLogin: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := s.userRepo.Create(ctx, s.store.DB(), user); err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	return user, nil
}

// ListUsers returns all staff accounts. Admin only, enforced by middleware.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx, s.store.DB())
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	return users, nil
}
