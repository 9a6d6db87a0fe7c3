package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lookman/lending-engine/internal/domain"
	bizErrors "github.com/lookman/lending-engine/pkg/errors"
)

func newBorrowerServiceForTest(borrowerRepo *MockBorrowerRepository) *BorrowerService {
	return NewBorrowerService(stubStore{}, borrowerRepo)
}

func TestCreateBorrower(t *testing.T) {
	borrowerRepo := new(MockBorrowerRepository)
	officer := Actor{ID: uuid.New(), Role: domain.RoleAccountOfficer}

	borrowerRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.Borrower")).
		Return(nil)

	svc := newBorrowerServiceForTest(borrowerRepo)

	borrower, err := svc.CreateBorrower(context.Background(), officer, &domain.CreateBorrowerRequest{
		Name:  "  Ada Obi  ",
		Phone: "08030000000",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Obi", borrower.Name, "name is trimmed")
	assert.Equal(t, officer.ID, borrower.CreatedBy)
	require.NotNil(t, borrower.Phone)
	assert.Equal(t, "08030000000", *borrower.Phone)
	assert.Nil(t, borrower.Address)
}

func TestCreateBorrowerRejectsShortName(t *testing.T) {
	svc := newBorrowerServiceForTest(new(MockBorrowerRepository))

	for _, name := range []string{"", "A", "  B  "} {
		_, err := svc.CreateBorrower(context.Background(), Actor{ID: uuid.New(), Role: domain.RoleAdmin},
			&domain.CreateBorrowerRequest{Name: name})
		require.Error(t, err, "name %q should be rejected", name)
		assert.True(t, errors.Is(err, bizErrors.ErrInvalidInput))
	}
}

func TestGetBorrowerOwnership(t *testing.T) {
	borrowerRepo := new(MockBorrowerRepository)
	owner := Actor{ID: uuid.New(), Role: domain.RoleAccountOfficer}

	borrower := &domain.Borrower{ID: uuid.New(), Name: "Ada", CreatedBy: owner.ID}
	borrowerRepo.On("GetByID", mock.Anything, mock.Anything, borrower.ID).Return(borrower, nil)

	svc := newBorrowerServiceForTest(borrowerRepo)

	got, err := svc.GetBorrower(context.Background(), owner, borrower.ID)
	require.NoError(t, err)
	assert.Equal(t, borrower.ID, got.ID)

	_, err = svc.GetBorrower(context.Background(), Actor{ID: uuid.New(), Role: domain.RoleAccountOfficer}, borrower.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bizErrors.ErrAccessDenied))

	_, err = svc.GetBorrower(context.Background(), Actor{ID: uuid.New(), Role: domain.RoleAdmin}, borrower.ID)
	assert.NoError(t, err, "admin reaches every borrower")
}

func TestDeleteBorrowerWithLoansRefused(t *testing.T) {
	borrowerRepo := new(MockBorrowerRepository)
	admin := Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	borrower := &domain.Borrower{ID: uuid.New(), Name: "Ada", CreatedBy: uuid.New()}
	borrowerRepo.On("GetByID", mock.Anything, mock.Anything, borrower.ID).Return(borrower, nil)
	borrowerRepo.On("CountLoans", mock.Anything, mock.Anything, borrower.ID).Return(2, nil)

	svc := newBorrowerServiceForTest(borrowerRepo)

	err := svc.DeleteBorrower(context.Background(), admin, borrower.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bizErrors.ErrInvalidState))
	borrowerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, borrower.ID)
}

func TestDeleteBorrowerWithoutLoans(t *testing.T) {
	borrowerRepo := new(MockBorrowerRepository)
	admin := Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	borrower := &domain.Borrower{ID: uuid.New(), Name: "Ada", CreatedBy: uuid.New()}
	borrowerRepo.On("GetByID", mock.Anything, mock.Anything, borrower.ID).Return(borrower, nil)
	borrowerRepo.On("CountLoans", mock.Anything, mock.Anything, borrower.ID).Return(0, nil)
	borrowerRepo.On("Delete", mock.Anything, mock.Anything, borrower.ID).Return(nil)

	svc := newBorrowerServiceForTest(borrowerRepo)

	err := svc.DeleteBorrower(context.Background(), admin, borrower.ID)
	require.NoError(t, err)
	borrowerRepo.AssertExpectations(t)
}
