package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nateenglert04/smart-casino-server/internal/blackjack"
)

// writeJSONError writes JSON error response
func writeJSONError(w http.ResponseWriter, data interface{}) error {
	return json.NewEncoder(w).Encode(data)
}

// ErrorBuilder helps construct structured errors with context
type ErrorBuilder struct {
	errType   string
	message   string
	context   map[string]interface{}
	requestID string
	cause     error
}

// NewError creates a new error builder
func NewError(errType, message string) *ErrorBuilder {
	return &ErrorBuilder{
		errType: errType,
		message: message,
		context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (eb *ErrorBuilder) WithContext(key string, value interface{}) *ErrorBuilder {
	eb.context[key] = value
	return eb
}

// WithRequestID adds request ID to the error
func (eb *ErrorBuilder) WithRequestID(requestID string) *ErrorBuilder {
	eb.requestID = requestID
	return eb
}

// WithCause adds the underlying cause error
func (eb *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	eb.cause = err
	if err != nil {
		eb.context["cause"] = err.Error()
	}
	return eb
}

// Build creates the final EngineError
func (eb *ErrorBuilder) Build() EngineError {
	return EngineError{
		Type:      eb.errType,
		Message:   eb.message,
		Context:   eb.context,
		RequestID: eb.requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *log.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *log.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// classifyGameError maps an engine sentinel error to an API error type and
// HTTP status. Unrecognized errors fall through as internal.
func classifyGameError(err error) (string, int) {
	switch {
	case errors.Is(err, blackjack.ErrInvalidBet):
		return ErrTypeInvalidBet, http.StatusBadRequest
	case errors.Is(err, blackjack.ErrInvalidPhaseAction):
		return ErrTypeInvalidPhaseAction, http.StatusConflict
	case errors.Is(err, blackjack.ErrInsufficientBalance):
		return ErrTypeInsufficientBalance, http.StatusBadRequest
	case errors.Is(err, blackjack.ErrIneligibleDouble):
		return ErrTypeIneligibleDouble, http.StatusBadRequest
	case errors.Is(err, blackjack.ErrIneligibleSplit):
		return ErrTypeIneligibleSplit, http.StatusBadRequest
	case errors.Is(err, blackjack.ErrUnknownSession):
		return ErrTypeUnknownSession, http.StatusNotFound
	case errors.Is(err, blackjack.ErrDeckExhausted):
		return ErrTypeDeckExhausted, http.StatusInternalServerError
	default:
		return ErrTypeInternal, http.StatusInternalServerError
	}
}

// HandleGameError maps engine errors from a blackjack action onto structured
// HTTP responses.
func (eh *ErrorHandler) HandleGameError(w http.ResponseWriter, r *http.Request, sessionID, action string, err error) {
	requestID := middleware.GetReqID(r.Context())
	errType, status := classifyGameError(err)

	engineErr := NewError(errType, err.Error()).
		WithRequestID(requestID).
		WithContext("session_id", sessionID).
		WithContext("action", action).
		WithContext("path", r.URL.Path).
		Build()

	eh.logError(r, engineErr, status)
	eh.writeErrorResponse(w, status, engineErr)
}

// HandleValidationError handles validation-specific errors
func (eh *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, field, message string) {
	requestID := middleware.GetReqID(r.Context())

	engineErr := NewError(ErrTypeValidation, fmt.Sprintf("Validation failed: %s", message)).
		WithRequestID(requestID).
		WithContext("field", field).
		WithContext("path", r.URL.Path).
		WithContext("method", r.Method).
		Build()

	eh.logError(r, engineErr, http.StatusBadRequest)
	eh.writeErrorResponse(w, http.StatusBadRequest, engineErr)
}

// HandleStoreError handles history-store failures on read endpoints
func (eh *ErrorHandler) HandleStoreError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	requestID := middleware.GetReqID(r.Context())

	engineErr := NewError(ErrTypeInternal, "History query failed").
		WithRequestID(requestID).
		WithContext("operation", operation).
		WithContext("path", r.URL.Path).
		WithCause(err).
		Build()

	eh.logError(r, engineErr, http.StatusInternalServerError)
	eh.writeErrorResponse(w, http.StatusInternalServerError, engineErr)
}

// logError logs the error with appropriate level and context
func (eh *ErrorHandler) logError(r *http.Request, engineErr EngineError, status int) {
	category := GetErrorCategory(engineErr.Type)

	// Game-rule rejections are routine client mistakes, not server faults.
	logLevel := "ERROR"
	if category == CategoryValidation || category == CategoryGame {
		logLevel = "WARN"
	}

	eh.logger.Printf(
		"error_occurred level=%s type=%s category=%s status=%d request_id=%s path=%s message=%q context=%+v",
		logLevel, engineErr.Type, category, status, engineErr.RequestID, r.URL.Path, engineErr.Message, engineErr.Context,
	)
}

// writeErrorResponse writes the error response as JSON
func (eh *ErrorHandler) writeErrorResponse(w http.ResponseWriter, status int, engineErr EngineError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.Header().Set("X-Error-Type", engineErr.Type)
	w.Header().Set("X-Error-Category", string(GetErrorCategory(engineErr.Type)))
	w.WriteHeader(status)

	// Write JSON response
	if err := writeJSONError(w, engineErr); err != nil {
		// Fallback to plain text if JSON encoding fails
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// RecoveryHandler provides panic recovery with structured error logging
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				requestID := middleware.GetReqID(r.Context())

				// Log panic with full context
				eh.logger.Printf(
					"panic_recovered request_id=%s path=%s method=%s panic=%v",
					requestID, r.URL.Path, r.Method, rvr,
				)

				// Create structured error response
				engineErr := NewError(ErrTypeInternal, "Internal server error").
					WithRequestID(requestID).
					WithContext("panic", fmt.Sprintf("%v", rvr)).
					WithContext("path", r.URL.Path).
					WithContext("method", r.Method).
					Build()

				eh.writeErrorResponse(w, http.StatusInternalServerError, engineErr)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
