package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by the store when a row does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError represents bad or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PermissionError represents a role mismatch or an actor that is not active.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

func NewPermissionError(format string, args ...interface{}) *PermissionError {
	return &PermissionError{Message: fmt.Sprintf(format, args...)}
}

// StateTransitionError represents an illegal change of a lifecycle field.
type StateTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *StateTransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("%s is already %s", e.Entity, e.From)
	}
	return fmt.Sprintf("%s status already finalized as %s and cannot be changed to %s", e.Entity, e.From, e.To)
}

// ConflictError represents a uniqueness violation.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	field := e.Field
	if field == "" {
		return "duplicate entry"
	}
	field = strings.ToUpper(field[:1]) + field[1:]
	if e.Value != "" {
		return fmt.Sprintf("%s %s already exists", field, e.Value)
	}
	return fmt.Sprintf("%s already exists", field)
}

// IsUniqueViolation checks if an error is a PostgreSQL unique constraint violation.
// Returns it as a ConflictError naming the offending column, or nil otherwise.
func IsUniqueViolation(err error) *ConflictError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	constraintName := strings.ToLower(pgErr.ConstraintName)
	switch {
	case strings.Contains(constraintName, "mobile"):
		return &ConflictError{Field: "mobile number"}
	case strings.Contains(constraintName, "email"):
		return &ConflictError{Field: "email"}
	case strings.Contains(constraintName, "lead_id"):
		return &ConflictError{Field: "payment for this lead"}
	}
	return &ConflictError{}
}

// HTTPStatus maps an error from the services to a response status code.
func HTTPStatus(err error) int {
	var (
		validationErr *ValidationError
		permissionErr *PermissionError
		transitionErr *StateTransitionError
		conflictErr   *ConflictError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &permissionErr):
		return http.StatusForbidden
	case errors.As(err, &transitionErr), errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// UserMessage returns the text shown to the caller. Unexpected errors are
// reported generically.
func UserMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusInternalServerError:
		return "Operation failed"
	case http.StatusNotFound:
		return "Record not found"
	}
	return err.Error()
}
