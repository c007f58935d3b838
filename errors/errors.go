// Package errors provides the error handling system for the tutorgate relay.
// It defines a small taxonomy of error types, a JSON response format, and
// integrated logging with Uber's zap logger.
//
// The relay's public error contract is deliberately narrow: clients only ever
// see {"error": "<message>"}. Everything else (error type, request ID, the
// underlying cause) stays in the server-side logs. The taxonomy exists so that
// upstream failures and unparseable model output can be told apart in logs
// even though they are indistinguishable at the HTTP boundary.
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// DefaultLogger is the default zap logger instance used throughout the package.
// It is initialized to a production configuration but can be overridden using SetLogger.
var DefaultLogger *zap.Logger

func init() {
	var err error
	DefaultLogger, err = zap.NewProduction()
	if err != nil {
		DefaultLogger = zap.NewNop()
	}
}

// SetLogger allows setting a custom zap logger instance.
// If nil is provided, the function will do nothing to prevent
// accidentally disabling logging.
func SetLogger(logger *zap.Logger) {
	if logger != nil {
		DefaultLogger = logger
	}
}

// ErrorType categorizes the failures the relay can produce. The HTTP status
// is derived from the type; the type itself is never sent to clients.
type ErrorType string

const (
	// ClientInputError represents an invalid inbound request, such as a
	// missing or non-string message. No upstream call is made.
	ClientInputError ErrorType = "client_input"

	// UpstreamCallError represents a network or provider failure during
	// the model call.
	UpstreamCallError ErrorType = "upstream_call"

	// MalformedModelOutput represents a model reply from which no JSON
	// object could be recovered. Treated identically to UpstreamCallError
	// at the HTTP boundary; distinguished only in logs.
	MalformedModelOutput ErrorType = "malformed_model_output"

	// InternalError represents unexpected failures such as recovered panics.
	InternalError ErrorType = "internal"
)

// RelayError is the relay's error type. It implements the error interface and
// carries the classification plus the underlying cause for logging.
type RelayError struct {
	// Type categorizes the error for logging and status mapping
	Type ErrorType

	// Message is the client-facing error text
	Message string

	// Code is the HTTP status code
	Code int

	// RequestID links the error to a specific request
	RequestID string

	// err is the underlying error, logged but never exposed
	err error
}

// Error implements the error interface.
func (e *RelayError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error, implementing the unwrap
// interface for error chains.
func (e *RelayError) Unwrap() error {
	return e.err
}

// Is implements error matching for errors.Is, matching on Type only.
func (e *RelayError) Is(target error) bool {
	t, ok := target.(*RelayError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewClientInputError creates a 400 error for invalid inbound requests.
func NewClientInputError(requestID, message string) *RelayError {
	return &RelayError{
		Type:      ClientInputError,
		Message:   message,
		Code:      http.StatusBadRequest,
		RequestID: requestID,
	}
}

// NewUpstreamCallError creates a 500 error for model call failures. The
// client-facing message is always the generic one; err carries the cause.
func NewUpstreamCallError(requestID, message string, err error) *RelayError {
	return &RelayError{
		Type:      UpstreamCallError,
		Message:   message,
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}

// NewMalformedOutputError creates a 500 error for unparseable model output.
func NewMalformedOutputError(requestID, message string, err error) *RelayError {
	return &RelayError{
		Type:      MalformedModelOutput,
		Message:   message,
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(requestID string, err error) *RelayError {
	return &RelayError{
		Type:      InternalError,
		Message:   "Internal server error",
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}

// ErrorResponse is the wire shape for every error the relay returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError logs a RelayError with full context and writes its
// client-facing form to w.
func WriteError(w http.ResponseWriter, err *RelayError) {
	DefaultLogger.Error("request error",
		zap.String("error_type", string(err.Type)),
		zap.String("message", err.Message),
		zap.Int("code", err.Code),
		zap.String("request_id", err.RequestID),
		zap.Error(err.err),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: err.Message})
}
