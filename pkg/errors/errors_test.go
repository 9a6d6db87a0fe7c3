package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessErrorUnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
	}{
		{"invalid input", WrapInvalidInput("bad"), ErrInvalidInput, ErrCodeInvalidInput},
		{"invalid state", WrapInvalidState("nope"), ErrInvalidState, ErrCodeInvalidState},
		{"duplicate payment", WrapDuplicatePayment("loan-1", 3), ErrDuplicateEntry, ErrCodeDuplicateEntry},
		{"loan not found", WrapLoanNotFound("loan-1"), ErrNotFound, ErrCodeNotFound},
		{"access denied", WrapAccessDenied("no"), ErrAccessDenied, ErrCodeAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, stderrors.Is(tt.err, tt.sentinel))

			var bizErr *BusinessError
			assert.True(t, stderrors.As(tt.err, &bizErr))
			assert.Equal(t, tt.code, bizErr.Code)
		})
	}
}

func TestWrapStorageFailureKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := WrapStorageFailure(cause)

	assert.True(t, stderrors.Is(err, ErrStorageFailure))
	assert.True(t, stderrors.Is(err, cause))
}

func TestDuplicatePaymentMessage(t *testing.T) {
	err := WrapDuplicatePayment("abc-123", 7)
	assert.Contains(t, err.Error(), "day 7")
	assert.Contains(t, err.Error(), "abc-123")
}
