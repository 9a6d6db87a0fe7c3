package domain

import (
	"time"

	"github.com/google/uuid"
)

type Borrower struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateBorrowerRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateBorrowerRequest is the allow-listed update payload for a borrower.
type UpdateBorrowerRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}
