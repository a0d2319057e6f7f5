package shipper

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a ShipperError.
type ErrorKind string

const (
	KindConfiguration  ErrorKind = "configuration"
	KindAuthentication ErrorKind = "authentication"
	KindCarrierAPI     ErrorKind = "carrier_api"
)

// Error codes used when the carrier did not provide one.
const (
	CodeInvalidConfig   = "INVALID_CONFIG"
	CodeAuthentication  = "AUTHENTICATION_FAILED"
	CodeDeserialization = "DESERIALIZATION"
	CodeTransport       = "TRANSPORT"
	CodeUnsupported     = "UNSUPPORTED_OPTIONS"
)

// ShipperError represents an error from a shipping carrier.
type ShipperError struct {
	Carrier    string
	Kind       ErrorKind
	Code       string
	Message    string
	StatusCode int
	Body       string // raw carrier response, for diagnostics
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *ShipperError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Carrier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Carrier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ShipperError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for ShipperError.
// Two ShipperErrors match on Code; the kind sentinels match on Kind.
func (e *ShipperError) Is(target error) bool {
	switch target {
	case ErrInvalidConfig:
		return e.Kind == KindConfiguration
	case ErrAuthenticationFailed:
		return e.Kind == KindAuthentication
	case ErrCarrierAPI:
		return e.Kind == KindCarrierAPI
	}
	t, ok := target.(*ShipperError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewShipperError creates a new ShipperError of kind KindCarrierAPI.
func NewShipperError(carrier, code, message string) *ShipperError {
	return &ShipperError{
		Carrier: carrier,
		Kind:    KindCarrierAPI,
		Code:    code,
		Message: message,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(carrier, message string) *ShipperError {
	return NewShipperError(carrier, CodeInvalidConfig, message).WithKind(KindConfiguration)
}

// NewAuthError creates an authentication error.
func NewAuthError(carrier, message string) *ShipperError {
	return NewShipperError(carrier, CodeAuthentication, message).WithKind(KindAuthentication)
}

// WithKind sets the error kind.
func (e *ShipperError) WithKind(kind ErrorKind) *ShipperError {
	e.Kind = kind
	return e
}

// WithCause adds a cause to the error.
func (e *ShipperError) WithCause(err error) *ShipperError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
// 429 and 5xx mark the error retryable.
func (e *ShipperError) WithStatusCode(code int) *ShipperError {
	e.StatusCode = code
	if code == http.StatusTooManyRequests || code >= http.StatusInternalServerError {
		e.Retryable = true
	}
	return e
}

// WithBody attaches the raw carrier response body.
func (e *ShipperError) WithBody(body string) *ShipperError {
	e.Body = body
	return e
}

// WithRetryable marks the error as retryable.
func (e *ShipperError) WithRetryable(retryable bool) *ShipperError {
	e.Retryable = retryable
	return e
}

// Sentinel errors for common shipping scenarios.
var (
	// ErrInvalidConfig matches every configuration error.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAuthenticationFailed matches every authentication error.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrCarrierAPI matches every error returned by a carrier business endpoint.
	ErrCarrierAPI = errors.New("carrier api error")

	// ErrServiceUnavailable indicates the carrier service is temporarily unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrRateLimitExceeded indicates the carrier rate limit was exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrShipmentNotFound indicates the carrier does not know the shipment.
	ErrShipmentNotFound = errors.New("shipment not found")

	// ErrCarrierNotFound indicates the requested carrier is not registered.
	ErrCarrierNotFound = errors.New("carrier not found")

	// ErrCapabilityNotSupported indicates the carrier is registered without the requested capability.
	ErrCapabilityNotSupported = errors.New("capability not supported")
)

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var shipperErr *ShipperError
	if errors.As(err, &shipperErr) {
		return shipperErr.Retryable
	}
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrRateLimitExceeded)
}
