package confirm

import (
	"fmt"
)

// ErrorType represents the classification of a confirmation failure
type ErrorType int

const (
	// ErrorTypeFatal indicates a programming or ordering error in the caller,
	// e.g. launching before registration. Never expected in correct usage.
	ErrorTypeFatal ErrorType = iota
	// ErrorTypePayment indicates a failure surfaced by the host launch itself,
	// e.g. a declined payment. Retrying is a caller/user decision.
	ErrorTypePayment
	// ErrorTypeNextStep indicates the decision service determined the
	// confirmation cannot proceed. No host launch was attempted.
	ErrorTypeNextStep
)

// ConfirmationError is a classified error with context
type ConfirmationError struct {
	Type    ErrorType
	Message string
	Cause   error
	Code    string
}

// NewFatalError creates a new fatal error
func NewFatalError(code, message string, cause error) *ConfirmationError {
	return &ConfirmationError{
		Type:    ErrorTypeFatal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, cause error) *ConfirmationError {
	return &ConfirmationError{
		Type:    ErrorTypePayment,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewNextStepError creates a new next-step error
func NewNextStepError(code, message string, cause error) *ConfirmationError {
	return &ConfirmationError{
		Type:    ErrorTypeNextStep,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error implements the error interface
func (e *ConfirmationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *ConfirmationError) Unwrap() error {
	return e.Cause
}

// IsFatal returns true if the error is fatal
func (e *ConfirmationError) IsFatal() bool {
	return e.Type == ErrorTypeFatal
}

// IsPayment returns true if the error came from the host launch
func (e *ConfirmationError) IsPayment() bool {
	return e.Type == ErrorTypePayment
}

// IsNextStep returns true if the error came from the decision service
func (e *ConfirmationError) IsNextStep() bool {
	return e.Type == ErrorTypeNextStep
}

// ClassifyError attempts to classify a regular error
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeFatal
	}

	if confErr, ok := err.(*ConfirmationError); ok {
		return confErr.Type
	}

	// Unclassified errors come from outside the launch path
	return ErrorTypeNextStep
}
