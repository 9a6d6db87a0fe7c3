package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidState   = errors.New("operation not permitted in current state")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrNotFound       = errors.New("not found")
	ErrStorageFailure = errors.New("storage failure")
	ErrAccessDenied   = errors.New("access denied")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeInvalidState   = "INVALID_STATE"
	ErrCodeDuplicateEntry = "DUPLICATE_ENTRY"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeStorageFailure = "STORAGE_FAILURE"
	ErrCodeAccessDenied   = "ACCESS_DENIED"
)

// Wrap common errors with business context

func WrapInvalidInput(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidInput, message, ErrInvalidInput)
}

func WrapInvalidState(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidState, message, ErrInvalidState)
}

func WrapDuplicatePayment(loanID string, day int) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateEntry,
		fmt.Sprintf("Payment for day %d of loan %s already exists", day, loanID),
		ErrDuplicateEntry,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Payment with ID %s not found", paymentID),
		ErrNotFound,
	)
}

func WrapBorrowerNotFound(borrowerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Borrower with ID %s not found", borrowerID),
		ErrNotFound,
	)
}

func WrapUserNotFound(username string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("User %s not found", username),
		ErrNotFound,
	)
}

func WrapStorageFailure(err error) *BusinessError {
	return NewBusinessError(ErrCodeStorageFailure, "database operation failed", errors.Join(ErrStorageFailure, err))
}

func WrapAccessDenied(message string) *BusinessError {
	return NewBusinessError(ErrCodeAccessDenied, message, ErrAccessDenied)
}
