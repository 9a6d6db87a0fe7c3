package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryCalculation is one officer's settled pay for a calendar month:
// the configured base plus a commission on everything collected against
// the officer's loan book in that month. At most one calculation may
// exist per (officer, period); settling the same month again is a no-op.
type SalaryCalculation struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	OfficerID        uuid.UUID       `json:"officer_id" db:"officer_id"`
	Period           string          `json:"period" db:"calculation_period"`
	BaseSalary       decimal.Decimal `json:"base_salary" db:"base_salary"`
	CommissionRate   decimal.Decimal `json:"commission_rate" db:"commission_rate"`
	TotalCollections decimal.Decimal `json:"total_collections" db:"total_collections"`
	CommissionAmount decimal.Decimal `json:"commission_amount" db:"commission_amount"`
	TotalSalary      decimal.Decimal `json:"total_salary" db:"total_salary"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}
