package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lookman/lending-engine/internal/domain"
	"github.com/lookman/lending-engine/internal/repository"
	bizErrors "github.com/lookman/lending-engine/pkg/errors"
)

type BorrowerService struct {
	store        repository.Store
	borrowerRepo repository.BorrowerRepository
}

func NewBorrowerService(store repository.Store, borrowerRepo repository.BorrowerRepository) *BorrowerService {
	return &BorrowerService{store: store, borrowerRepo: borrowerRepo}
}

func (s *BorrowerService) CreateBorrower(ctx context.Context, actor Actor, req *domain.CreateBorrowerRequest) (*domain.Borrower, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return nil, bizErrors.WrapInvalidInput("borrower name must be at least 2 characters long")
	}

	now := time.Now()
	borrower := &domain.Borrower{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Phone != "" {
		borrower.Phone = &req.Phone
	}
	if req.Address != "" {
		borrower.Address = &req.Address
	}

	if err := s.borrowerRepo.Create(ctx, s.store.DB(), borrower); err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	return borrower, nil
}

func (s *BorrowerService) GetBorrower(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Borrower, error) {
	return s.getOwnedBorrower(ctx, actor, id)
}

func (s *BorrowerService) ListBorrowers(ctx context.Context, actor Actor) ([]*domain.Borrower, error) {
	var officerID *uuid.UUID
	if !actor.IsAdmin() {
		officerID = &actor.ID
	}

	borrowers, err := s.borrowerRepo.List(ctx, s.store.DB(), officerID)
	if err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	return borrowers, nil
}

func (s *BorrowerService) UpdateBorrower(ctx context.Context, actor Actor, id uuid.UUID, req *domain.UpdateBorrowerRequest) (*domain.Borrower, error) {
	borrower, err := s.getOwnedBorrower(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 2 {
			return nil, bizErrors.WrapInvalidInput("borrower name must be at least 2 characters long")
		}
		borrower.Name = name
	}
	if req.Phone != nil {
		borrower.Phone = req.Phone
	}
	if req.Address != nil {
		borrower.Address = req.Address
	}

	if err := s.borrowerRepo.Update(ctx, s.store.DB(), borrower); err != nil {
		return nil, bizErrors.WrapStorageFailure(err)
	}
	return borrower, nil
}

// DeleteBorrower refuses while any loans exist for the borrower.
func (s *BorrowerService) DeleteBorrower(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.getOwnedBorrower(ctx, actor, id); err != nil {
		return err
	}

	count, err := s.borrowerRepo.CountLoans(ctx, s.store.DB(), id)
	if err != nil {
		return bizErrors.WrapStorageFailure(err)
	}
	if count > 0 {
		return bizErrors.WrapInvalidState("cannot delete borrower with existing loans")
	}

	if err := s.borrowerRepo.Delete(ctx, s.store.DB(), id); err != nil {
		return bizErrors.WrapStorageFailure(err)
	}
	return nil
}

func (s *BorrowerService) getOwnedBorrower(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Borrower, error) {
	borrower, err := s.borrowerRepo.GetByID(ctx, s.store.DB(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bizErrors.WrapBorrowerNotFound(id.String())
		}
		return nil, bizErrors.WrapStorageFailure(err)
	}

	if !actor.IsAdmin() && borrower.CreatedBy != actor.ID {
		return nil, bizErrors.WrapAccessDenied("borrower belongs to another officer")
	}
	return borrower, nil
}
