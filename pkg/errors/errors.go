package errors

import (
	"fmt"
)

type ErrorType string

const (
	PreconditionError ErrorType = "PRECONDITION_ERROR"
	FundingError      ErrorType = "FUNDING_ERROR"
	DeploymentError   ErrorType = "DEPLOYMENT_ERROR"
	DecodingError     ErrorType = "DECODING_ERROR"
	ValidationError   ErrorType = "VALIDATION_ERROR"
	NotFoundError     ErrorType = "NOT_FOUND"
	DatabaseError     ErrorType = "DATABASE_ERROR"
	InternalError     ErrorType = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"` // Internal error, not exposed in JSON
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Helper functions to create specific error types
func NewPreconditionError(msg string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    PreconditionError,
		Message: msg,
		Details: details,
	}
}

func NewFundingError(msg string, err error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    FundingError,
		Message: msg,
		Details: details,
		Err:     err,
	}
}

func NewDeploymentError(msg string, err error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    DeploymentError,
		Message: msg,
		Details: details,
		Err:     err,
	}
}

func NewDecodingError(msg string, err error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    DecodingError,
		Message: msg,
		Details: details,
		Err:     err,
	}
}

func NewValidationError(msg string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ValidationError,
		Message: msg,
		Details: details,
	}
}

func NewNotFoundError(msg string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    NotFoundError,
		Message: msg,
		Details: details,
	}
}

func NewDatabaseError(msg string, err error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    DatabaseError,
		Message: msg,
		Details: details,
		Err:     err,
	}
}

func NewInternalError(msg string, err error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    InternalError,
		Message: msg,
		Details: details,
		Err:     err,
	}
}

func IsType(err error, target ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == target
	}
	return false
}
