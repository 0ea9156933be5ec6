package errors

import (
	"errors"
	"fmt"
)

var (
	ErrURLNotFound   = errors.New("short link not found")
	ErrDuplicateKey  = errors.New("short code already stored")
	ErrInvalidCode   = errors.New("invalid short code")
	ErrCodeTaken     = errors.New("short code already taken")
	ErrCodeCollision = errors.New("short code collision")
	ErrEmptyOriginal = errors.New("original URL is empty")
)

// ErrAllocationExhausted is a service fault: the keyspace is saturated or
// storage did not answer while looking for a free code.
var ErrAllocationExhausted = NewBusinessError("ALLOCATION_EXHAUSTED", "unable to allocate a unique short code", nil)

type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

type BusinessError struct {
	Code    string
	Message string
	Cause   error
}

func (e *BusinessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Cause
}

// Is matches business errors by code so that a wrapped copy carrying a
// cause still compares equal to its sentinel.
func (e *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NewBusinessError(code, message string, cause error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Exhausted returns ErrAllocationExhausted carrying the reason.
func Exhausted(cause error) *BusinessError {
	return NewBusinessError(ErrAllocationExhausted.Code, ErrAllocationExhausted.Message, cause)
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsBusinessError reports whether err wraps a BusinessError.
func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

func GetValidationError(err error) *ValidationError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

// GetBusinessError returns the BusinessError in err's chain, or nil.
func GetBusinessError(err error) *BusinessError {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}
