// Package apierrors defines the domain error taxonomy shared by every
// component of the calculation core (spec §6, §7).
package apierrors

import (
	"fmt"
	"net/http"
)

// Code is one of the exhaustive error kinds from the external interface
// contract. Callers route on this string, never on Go error types.
type Code string

const (
	InvalidInput      Code = "InvalidInput"
	CalculationError  Code = "CalculationError"
	EngineNotFound    Code = "EngineNotFound"
	PhaseAccessDenied Code = "PhaseAccessDenied"
	CacheError        Code = "CacheError"
	BridgeError       Code = "BridgeError"
	ConfigError       Code = "ConfigError"
	TimeoutError      Code = "TimeoutError"
	RateLimitError    Code = "RateLimitError"
	ExternalApiError  Code = "ExternalApiError"
	InternalError     Code = "InternalError"
)

// httpStatus maps each code to the status an HTTP transport layer would use.
// The core itself never writes HTTP responses (§1) but carries the mapping
// so a transport adapter doesn't need its own copy.
var httpStatus = map[Code]int{
	InvalidInput:      http.StatusBadRequest,
	CalculationError:  http.StatusUnprocessableEntity,
	EngineNotFound:    http.StatusNotFound,
	PhaseAccessDenied: http.StatusForbidden,
	CacheError:        http.StatusInternalServerError,
	BridgeError:       http.StatusBadGateway,
	ConfigError:       http.StatusInternalServerError,
	TimeoutError:      http.StatusGatewayTimeout,
	RateLimitError:    http.StatusTooManyRequests,
	ExternalApiError:  http.StatusBadGateway,
	InternalError:     http.StatusInternalServerError,
}

// Error is the structured domain error propagated through the core and
// serialized to callers as the error envelope of spec §6.
type Error struct {
	Kind       Code
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// WithDetail attaches a key/value pair to Details and returns the receiver
// for chaining, mirroring the teacher's WithDetails builder.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New builds an Error of the given kind with the default HTTP status.
func New(kind Code, message string) *Error {
	return &Error{Kind: kind, Message: message, HTTPStatus: httpStatus[kind]}
}

// Wrap builds an Error of the given kind around an existing error.
func Wrap(kind Code, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, HTTPStatus: httpStatus[kind], Cause: cause}
}

// Envelope is the JSON-serializable error response of spec §6.
type Envelope struct {
	ErrorKind    string                 `json:"error_kind"`
	ErrorMessage string                 `json:"error_message"`
	ErrorDetails map[string]interface{} `json:"error_details,omitempty"`
}

// ToEnvelope converts an Error to its wire representation.
func (e *Error) ToEnvelope() Envelope {
	return Envelope{
		ErrorKind:    string(e.Kind),
		ErrorMessage: e.Message,
		ErrorDetails: e.Details,
	}
}

// Convenience constructors, mirroring the teacher's per-kind helpers.

func NewInvalidInput(field, reason string) *Error {
	return New(InvalidInput, "invalid input").
		WithDetail("field", field).
		WithDetail("reason", reason)
}

func NewCalculationError(body string, instant interface{}, cause error) *Error {
	return Wrap(CalculationError, "calculation failed", cause).
		WithDetail("body", body).
		WithDetail("instant", fmt.Sprintf("%v", instant))
}

func NewEngineNotFound(engineID string) *Error {
	return New(EngineNotFound, "engine not found").WithDetail("engine_id", engineID)
}

func NewPhaseAccessDenied(declared, required int) *Error {
	return New(PhaseAccessDenied, "consciousness level too low").
		WithDetail("declared_level", declared).
		WithDetail("required_level", required)
}

func NewCacheError(tier string, cause error) *Error {
	return Wrap(CacheError, "cache operation failed", cause).WithDetail("tier", tier)
}

func NewBridgeError(statusCode int, cause error) *Error {
	return Wrap(BridgeError, "bridge adapter call failed", cause).WithDetail("status_code", statusCode)
}

func NewConfigError(reason string) *Error {
	return New(ConfigError, reason)
}

func NewTimeoutError(operation string) *Error {
	return New(TimeoutError, "operation timed out").WithDetail("operation", operation)
}

func NewRateLimitError() *Error {
	return New(RateLimitError, "rate limit exceeded")
}

func NewExternalAPIError(service string, cause error) *Error {
	return Wrap(ExternalApiError, "external API call failed", cause).WithDetail("service", service)
}

func NewInternalError(cause error) *Error {
	return Wrap(InternalError, "internal error", cause)
}
