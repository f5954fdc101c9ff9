package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeInvalidURL represents a structurally invalid target URL
	ErrorTypeInvalidURL ErrorType = "invalid_url"
	// ErrorTypeUnsupportedEngine represents an unrecognized browser engine
	ErrorTypeUnsupportedEngine ErrorType = "unsupported_engine"
	// ErrorTypePageLoadTimeout represents navigation timing out on every attempt
	ErrorTypePageLoadTimeout ErrorType = "page_load_timeout"
	// ErrorTypeTransport represents automation-layer failures (crashed handle, lost connection)
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeAcquisition represents any other unexpected failure during an attempt
	ErrorTypeAcquisition ErrorType = "acquisition"
	// ErrorTypeExport represents export failures
	ErrorTypeExport ErrorType = "export"
	// ErrorTypeCheckpoint represents checkpoint I/O failures
	ErrorTypeCheckpoint ErrorType = "checkpoint"
	// ErrorTypeCancelled represents an external interrupt during a wait or measurement
	ErrorTypeCancelled ErrorType = "cancelled"
	// ErrorTypeRateLimit represents a refused re-crawl inside the block window
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScraperError represents a scraper-specific error
type ScraperError struct {
	Type     ErrorType
	Message  string
	Err      error
	Attempts int
	Time     time.Time
}

// Error implements the error interface
func (e *ScraperError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ScraperError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if another acquisition attempt may succeed
func (e *ScraperError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypePageLoadTimeout, ErrorTypeTransport:
		return true
	default:
		return false
	}
}

// New creates a new ScraperError
func New(errType ErrorType, message string, err error) *ScraperError {
	return &ScraperError{
		Type:    errType,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewInvalidURL creates an invalid URL error
func NewInvalidURL(url string) *ScraperError {
	return New(ErrorTypeInvalidURL, fmt.Sprintf("invalid URL: %s", url), nil)
}

// NewUnsupportedEngine creates an unsupported engine error
func NewUnsupportedEngine(engine string) *ScraperError {
	return New(ErrorTypeUnsupportedEngine, fmt.Sprintf("unsupported browser engine: %s", engine), nil)
}

// NewPageLoadTimeout creates a page load timeout error carrying the attempt count
func NewPageLoadTimeout(attempts int, err error) *ScraperError {
	e := New(ErrorTypePageLoadTimeout, fmt.Sprintf("page load timeout after %d attempts", attempts), err)
	e.Attempts = attempts
	return e
}

// NewTransport creates a transport error carrying the attempt count
func NewTransport(attempts int, err error) *ScraperError {
	e := New(ErrorTypeTransport, fmt.Sprintf("browser transport failure after %d attempts", attempts), err)
	e.Attempts = attempts
	return e
}

// NewAcquisition creates an acquisition error for non-retryable failures
func NewAcquisition(message string, err error) *ScraperError {
	return New(ErrorTypeAcquisition, message, err)
}

// NewExport creates an export error
func NewExport(message string, err error) *ScraperError {
	return New(ErrorTypeExport, message, err)
}

// NewCheckpoint creates a checkpoint error
func NewCheckpoint(message string, err error) *ScraperError {
	return New(ErrorTypeCheckpoint, message, err)
}

// NewCancelled creates a cancellation error
func NewCancelled(err error) *ScraperError {
	return New(ErrorTypeCancelled, "crawl cancelled", err)
}

// NewRateLimit creates a rate limit error
func NewRateLimit(url string, window time.Duration) *ScraperError {
	return New(ErrorTypeRateLimit, fmt.Sprintf("%s was crawled within the last %v; use --resume or wait", url, window), nil)
}

// NewConfiguration creates a configuration error
func NewConfiguration(message string, err error) *ScraperError {
	return New(ErrorTypeConfiguration, message, err)
}

// TypeOf returns the error type of err, or an empty type for foreign errors
func TypeOf(err error) ErrorType {
	if se, ok := err.(*ScraperError); ok {
		return se.Type
	}
	return ""
}

// IsCancelled reports whether err is a cancellation error
func IsCancelled(err error) bool {
	return TypeOf(err) == ErrorTypeCancelled
}
