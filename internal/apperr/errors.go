// Package apperr is the network's single error taxonomy. Every operation
// that can fail in a way a caller needs to branch on returns an *Error
// with one of the Code values below, following the §4.5/§7 contract:
// payment and clearing failures are never bare Go errors once they cross
// a component boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a stable, closed set of error identifiers.
type Code string

const (
	InsufficientCapacity  Code = "INSUFFICIENT_CAPACITY"
	InvalidSignature      Code = "INVALID_SIGNATURE"
	ReplayNonce           Code = "REPLAY_NONCE"
	InactiveParticipant   Code = "INACTIVE_PARTICIPANT"
	PolicyDenied          Code = "POLICY_DENIED"
	Timeout               Code = "TIMEOUT"
	InvariantViolation    Code = "INVARIANT_VIOLATION"
	EquivalentInactiveErr Code = "EQUIVALENT_INACTIVE"
	IdempotencyConflict   Code = "IDEMPOTENCY_CONFLICT"

	NotFound             Code = "NOT_FOUND"
	DuplicateEntry       Code = "DUPLICATE_ENTRY"
	ConstraintViolation  Code = "CONSTRAINT_VIOLATION"
	Unavailable          Code = "UNAVAILABLE"
	InvalidArgument      Code = "INVALID_ARGUMENT"
	Unsupported          Code = "UNSUPPORTED"
	Internal             Code = "INTERNAL"
)

// Error is the network's structured error type. It mirrors the
// operation/cause/retryable/details shape a typed store-error taxonomy
// carries, generalized from persistence failures to the full domain.
type Error struct {
	Code      Code
	Operation string
	Message   string
	Cause     error
	Retryable bool
	Details   map[string]any
}

func (e *Error) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s: %s: %s", e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is against both *Error values (matched by Code) and
// the package-level sentinel errors below.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// WithDetail attaches a key/value pair of diagnostic context and returns
// the same error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New constructs an *Error with the given code and message.
func New(code Code, operation, message string) *Error {
	return &Error{Code: code, Operation: operation, Message: message}
}

// Wrap constructs an *Error that carries cause as its underlying error.
func Wrap(code Code, operation, message string, cause error) *Error {
	return &Error{Code: code, Operation: operation, Message: message, Cause: cause, Retryable: isRetryable(code, cause)}
}

func isRetryable(code Code, cause error) bool {
	switch code {
	case Timeout, Unavailable:
		return true
	default:
		return false
	}
}

// CodeOf extracts the Code from err if it is (or wraps) an *Error,
// and Internal otherwise.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// Envelope is the §7 JSON error envelope shape.
type Envelope struct {
	Error EnvelopeBody `json:"error"`
}

// EnvelopeBody is the body of Envelope.
type EnvelopeBody struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToEnvelope renders e as the §7 response envelope.
func (e *Error) ToEnvelope() Envelope {
	return Envelope{Error: EnvelopeBody{Code: e.Code, Message: e.Message, Details: e.Details}}
}

// ErrUnsupportedTransactionType is returned by every write path for the
// reserved COMPRESSION/COMPENSATION transaction types.
var ErrUnsupportedTransactionType = New(Unsupported, "", "transaction type is reserved and not yet implemented")
