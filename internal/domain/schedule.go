package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleEntry is one expected collection day of a loan. Entries are
// derived on demand from the loan's fields, never persisted.
type ScheduleEntry struct {
	Day            int             `json:"day"`
	Date           time.Time       `json:"date"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
}

type ScheduleResponse struct {
	LoanID   string          `json:"loan_id"`
	Schedule []ScheduleEntry `json:"schedule"`
}
