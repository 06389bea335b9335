// Package apperror provides a structured way to handle application errors
// with specific codes, severity levels, and additional details, plus
// conversion to HTTP and gRPC status codes at the transport boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// Input validation
	CodeNilInput        ErrorCode = "NIL_INPUT"
	CodeEmptyImage      ErrorCode = "EMPTY_IMAGE"
	CodeShapeMismatch   ErrorCode = "SHAPE_MISMATCH"
	CodeNotWrappedPhase ErrorCode = "NOT_WRAPPED_PHASE"
	CodeNaNInput        ErrorCode = "NAN_INPUT"
	CodeImageTooLarge   ErrorCode = "IMAGE_TOO_LARGE"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// Solver
	CodeInvalidAlgorithm ErrorCode = "INVALID_ALGORITHM"
	CodeInfeasible       ErrorCode = "INFEASIBLE"
	CodeIterationLimit   ErrorCode = "ITERATION_LIMIT"
	CodeUnbalanced       ErrorCode = "UNBALANCED_NETWORK"
	CodeTimeout          ErrorCode = "TIMEOUT"

	// General
	CodeInternal    ErrorCode = "INTERNAL_ERROR"
	CodeNotFound    ErrorCode = "NOT_FOUND"
	CodeUnavailable ErrorCode = "UNAVAILABLE"
)

// Severity defines the criticality level of an error.
type Severity int

const (
	// SeverityWarning indicates a non-critical issue.
	SeverityWarning Severity = iota
	// SeverityError indicates a standard error that requires attention.
	SeverityError
	// SeverityCritical indicates a severe error that might require immediate
	// human intervention.
	SeverityCritical
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is a custom error type carrying an ErrorCode, a human-readable
// message, an optional offending field, structured details, the underlying
// cause and a severity level.
type Error struct {
	Code     ErrorCode
	Message  string
	Field    string
	Details  map[string]any
	Cause    error
	Severity Severity
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, enabling errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and message at SeverityError.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Severity: SeverityError}
}

// Newf creates an Error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates an Error that records cause for errors.Is/As.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause, Severity: SeverityError}
}

// WithField attaches the offending input field.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithDetail attaches a structured detail value.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithSeverity sets the severity.
func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// CodeOf extracts the ErrorCode from any error, or CodeInternal if it does
// not carry one.
func CodeOf(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNilInput, CodeEmptyImage, CodeShapeMismatch, CodeNotWrappedPhase,
		CodeNaNInput, CodeInvalidArgument, CodeInvalidAlgorithm:
		return http.StatusBadRequest
	case CodeImageTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInfeasible, CodeUnbalanced, CodeIterationLimit:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GRPCStatus maps an error to a gRPC status for callers that front this
// library with an RPC transport.
func GRPCStatus(err error) *status.Status {
	var code codes.Code
	switch CodeOf(err) {
	case CodeNilInput, CodeEmptyImage, CodeShapeMismatch, CodeNotWrappedPhase,
		CodeNaNInput, CodeInvalidArgument, CodeInvalidAlgorithm, CodeImageTooLarge:
		code = codes.InvalidArgument
	case CodeNotFound:
		code = codes.NotFound
	case CodeInfeasible, CodeUnbalanced, CodeIterationLimit:
		code = codes.FailedPrecondition
	case CodeTimeout:
		code = codes.DeadlineExceeded
	case CodeUnavailable:
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.New(code, err.Error())
}
