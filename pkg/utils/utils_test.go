package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateInterest(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		expected  string
	}{
		{"standard rate", "5000", "10", "500.00"},
		{"zero rate", "5000", "0", "0.00"},
		{"fractional rate", "10000", "7.5", "750.00"},
		{"rounds to two places", "1000", "3.333", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal := decimal.RequireFromString(tt.principal)
			rate := decimal.RequireFromString(tt.rate)
			expected := decimal.RequireFromString(tt.expected)

			got := CalculateInterest(principal, rate)
			assert.True(t, got.Equal(expected), "got %s, want %s", got, expected)
		})
	}
}

func TestCalculateTotalAmount(t *testing.T) {
	principal := decimal.RequireFromString("5000")
	interest := decimal.RequireFromString("500")
	expenses := decimal.RequireFromString("0")

	total := CalculateTotalAmount(principal, interest, expenses)
	assert.True(t, total.Equal(decimal.RequireFromString("5500.00")))

	withExpenses := CalculateTotalAmount(principal, interest, decimal.RequireFromString("250.50"))
	assert.True(t, withExpenses.Equal(decimal.RequireFromString("5750.50")))
}

func TestCalculateDailyRepayment(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		days     int
		expected string
	}{
		{"non-terminating division rounds", "5500", 15, "366.67"},
		{"even division", "3000", 30, "100.00"},
		{"single day", "5500", 1, "5500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			expected := decimal.RequireFromString(tt.expected)

			got := CalculateDailyRepayment(total, tt.days)
			assert.True(t, got.Equal(expected), "got %s, want %s", got, expected)
		})
	}
}

func TestExpectedEndDate(t *testing.T) {
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	// 15-day loan starting on the 1st ends on the 15th
	end := ExpectedEndDate(start, 15)
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), end)

	// single-day loan ends the day it starts
	assert.Equal(t, start, ExpectedEndDate(start, 1))

	// duration crossing a month boundary
	end = ExpectedEndDate(time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC), 10)
	assert.Equal(t, time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), end)
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsWeekend(saturday))
	assert.True(t, IsWeekend(sunday))
	assert.False(t, IsWeekend(monday))
	assert.False(t, IsWeekend(friday))
}

func TestNextBusinessDay(t *testing.T) {
	saturday := time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday, NextBusinessDay(saturday))
	assert.Equal(t, monday, NextBusinessDay(sunday))
	assert.Equal(t, monday, NextBusinessDay(monday))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-08-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("01/08/2025")
	assert.Error(t, err)

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	ts := time.Date(2025, 8, 1, 14, 35, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Truncate(ts))
}
