package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents page-fetch errors
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeDelivery represents alert delivery errors
	ErrorTypeDelivery ErrorType = "delivery"
	// ErrorTypeState represents state store errors
	ErrorTypeState ErrorType = "state"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScanError represents a scan-run error with its origin component.
// Per-candidate extraction rejections are not errors; they are reported
// through scanner.Candidate instead.
type ScanError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *ScanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if a later run may succeed without intervention
func (e *ScanError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeFetch, ErrorTypeDelivery:
		return true
	default:
		return false
	}
}

// New creates a new ScanError
func New(errType ErrorType, component, message string, err error) *ScanError {
	return &ScanError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewFetch creates a new fetch error
func NewFetch(component, message string, err error) *ScanError {
	return New(ErrorTypeFetch, component, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(component, message string, err error) *ScanError {
	return New(ErrorTypeParsing, component, message, err)
}

// NewDelivery creates a new delivery error
func NewDelivery(component, message string, err error) *ScanError {
	return New(ErrorTypeDelivery, component, message, err)
}

// NewState creates a new state store error
func NewState(component, message string, err error) *ScanError {
	return New(ErrorTypeState, component, message, err)
}

// NewValidation creates a new validation error
func NewValidation(component, message string) *ScanError {
	return New(ErrorTypeValidation, component, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScanError {
	return New(ErrorTypeConfiguration, "", message, err)
}
