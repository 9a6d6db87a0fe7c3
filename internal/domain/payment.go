package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is one collection recorded against a day of a loan's schedule.
// At most one payment may exist per (loan, payment_day) pair.
type Payment struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	LoanID            uuid.UUID       `json:"loan_id" db:"loan_id"`
	PaymentDate       time.Time       `json:"payment_date" db:"payment_date"`
	ExpectedAmount    decimal.Decimal `json:"expected_amount" db:"expected_amount"`
	ActualAmount      decimal.Decimal `json:"actual_amount" db:"actual_amount"`
	PaymentDay        int             `json:"payment_day" db:"payment_day"`
	IsWeekendAdjusted bool            `json:"is_weekend_adjusted" db:"is_weekend_adjusted"`
	RecordedBy        uuid.UUID       `json:"recorded_by" db:"recorded_by"`
	Notes             *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

type RecordPaymentRequest struct {
	LoanID       string          `json:"loan_id" validate:"required,uuid4"`
	ActualAmount decimal.Decimal `json:"actual_amount"`
	PaymentDate  string          `json:"payment_date" validate:"required"`
	PaymentDay   int             `json:"payment_day" validate:"required,gte=1"`
	Notes        string          `json:"notes"`
}

// UpdatePaymentRequest is the allow-listed update payload for a payment.
type UpdatePaymentRequest struct {
	ActualAmount *decimal.Decimal `json:"actual_amount,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

type DailyCollectionSummary struct {
	Date           string          `json:"date"`
	TotalPayments  int             `json:"total_payments"`
	TotalExpected  decimal.Decimal `json:"total_expected"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	CollectionRate decimal.Decimal `json:"collection_rate"`
}
