package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for all calendar dates.
const DateLayout = "2006-01-02"

var oneHundred = decimal.NewFromInt(100)

// CalculateInterest calculates the interest amount
// Formula: Principal * Rate / 100
func CalculateInterest(principal decimal.Decimal, ratePercent decimal.Decimal) decimal.Decimal {
	return principal.Mul(ratePercent).Div(oneHundred).Round(2)
}

// CalculateTotalAmount calculates the total amount to be repaid
// Formula: Principal + Interest + Expenses
func CalculateTotalAmount(principal, interest, expenses decimal.Decimal) decimal.Decimal {
	return principal.Add(interest).Add(expenses).Round(2)
}

// CalculateDailyRepayment calculates the daily repayment amount
// Formula: Total Amount / Duration in days
func CalculateDailyRepayment(totalAmount decimal.Decimal, durationDays int) decimal.Decimal {
	return totalAmount.Div(decimal.NewFromInt(int64(durationDays))).Round(2)
}

// ExpectedEndDate calculates the expected end date of a loan.
// The end date is duration-1 calendar days after the start date, so a
// 15-day loan starting on the 1st ends on the 15th. Weekends are not
// skipped here; the collection schedule handles those separately.
func ExpectedEndDate(startDate time.Time, durationDays int) time.Time {
	return startDate.AddDate(0, 0, durationDays-1)
}

// IsWeekend reports whether a date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextBusinessDay advances a date past any weekend days. Weekday dates are
// returned unchanged.
func NextBusinessDay(t time.Time) time.Time {
	for IsWeekend(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Truncate strips the time-of-day component, keeping just the date.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// PeriodLayout is the wire format for calendar-month periods.
const PeriodLayout = "2006-01"

// ParsePeriod parses a YYYY-MM period into its first and last day.
func ParsePeriod(s string) (time.Time, time.Time, error) {
	start, err := time.Parse(PeriodLayout, s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

// FormatPeriod formats a date's calendar month as YYYY-MM.
func FormatPeriod(t time.Time) string {
	return t.Format(PeriodLayout)
}
