package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/yasinhessnawi1/storefront/internal/constants"
)

// Custom error types for the application
var (
	ErrNotFound              = errors.New(constants.ErrorNotFound)
	ErrUnauthorized          = errors.New(constants.ErrorUnauthorized)
	ErrForbidden             = errors.New(constants.ErrorForbidden)
	ErrBadRequest            = errors.New(constants.ErrorBadRequest)
	ErrInternalServer        = errors.New(constants.ErrorInternalServer)
	ErrValidation            = errors.New(constants.ErrorValidation)
	ErrDuplicate             = errors.New(constants.ErrorDuplicate)
	ErrInvalidCredentials    = errors.New(constants.ErrorInvalidCredentials)
	ErrExpiredToken          = errors.New(constants.ErrorExpiredToken)
	ErrInvalidToken          = errors.New(constants.ErrorInvalidToken)
	ErrInvalidLink           = errors.New(constants.ErrorInvalidLink)
	ErrExpiredOrInvalidToken = errors.New(constants.ErrorResetToken)
	ErrWeakPassword          = errors.New(constants.ErrorWeakPassword)
	ErrRateLimited           = errors.New(constants.ErrorRateLimited)
	ErrEmailDelivery         = errors.New(constants.ErrorEmailDelivery)
)

// AppError represents an application error with additional context
type AppError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly error message
	DevInfo    string // Additional information for developers
	Field      string // Field related to the error (for validation errors)
	Details    map[string]any
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the given error and status code
func New(err error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewValidationError creates a new validation error for a specific field
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Field:      field,
	}
}

// NewValidationErrors carries one message per offending field.
func NewValidationErrors(fields map[string]string) *AppError {
	details := make(map[string]any, len(fields))
	for field, msg := range fields {
		details[field] = msg
	}
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    "Validation failed",
		Details:    details,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resourceType string, identifier any) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    constants.MsgResourceNotFound,
		DevInfo:    fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier),
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	return &AppError{
		Err:        ErrUnauthorized,
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = constants.MsgAccessDenied
	}
	return &AppError{
		Err:        ErrForbidden,
		StatusCode: http.StatusForbidden,
		Message:    message,
	}
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrInternalServer,
		StatusCode: http.StatusInternalServerError,
		Message:    constants.MsgInternalServerError,
		DevInfo:    devInfo,
	}
}

// NewDuplicateError creates a new duplicate resource error
func NewDuplicateError(resourceType, field string, value any) *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusConflict,
		Message:    fmt.Sprintf("%s with %s '%v' already exists", resourceType, field, value),
		Field:      field,
	}
}

// NewInvalidCredentialsError creates a new invalid credentials error
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Err:        ErrInvalidCredentials,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgInvalidPassword,
	}
}

// NewExpiredTokenError creates a new expired token error
func NewExpiredTokenError() *AppError {
	return &AppError{
		Err:        ErrExpiredToken,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgTokenExpired,
	}
}

// NewInvalidTokenError creates a new invalid token error
func NewInvalidTokenError() *AppError {
	return &AppError{
		Err:        ErrInvalidToken,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgInvalidToken,
	}
}

// NewInvalidLinkError is returned when a reset link's user reference cannot be resolved.
func NewInvalidLinkError() *AppError {
	return &AppError{
		Err:        ErrInvalidLink,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgInvalidResetLink,
	}
}

// NewExpiredOrInvalidResetTokenError is returned when a reset token does not verify.
func NewExpiredOrInvalidResetTokenError() *AppError {
	return &AppError{
		Err:        ErrExpiredOrInvalidToken,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgInvalidOrExpiredLink,
	}
}

// NewWeakPasswordError carries every message the password validator produced.
func NewWeakPasswordError(field string, messages []string) *AppError {
	return &AppError{
		Err:        ErrWeakPassword,
		StatusCode: http.StatusBadRequest,
		Message:    strings.Join(messages, " "),
		Field:      field,
		Details:    map[string]any{field: messages},
	}
}

// NewRateLimitedError is returned when a client exceeds its request budget.
func NewRateLimitedError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		StatusCode: http.StatusTooManyRequests,
		Message:    constants.MsgRateLimited,
	}
}

// NewEmailDeliveryError wraps a failed send so the cause is logged but not returned.
func NewEmailDeliveryError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrEmailDelivery,
		StatusCode: http.StatusInternalServerError,
		Message:    constants.MsgEmailDelivery,
		DevInfo:    devInfo,
	}
}

// ParseError attempts to parse various types of errors into an AppError
func ParseError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError("Resource", "")
	case errors.Is(err, ErrUnauthorized):
		return NewUnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return NewForbiddenError("")
	case errors.Is(err, ErrBadRequest):
		return NewBadRequestError(err.Error())
	case errors.Is(err, ErrValidation):
		return NewValidationError("", err.Error())
	case errors.Is(err, ErrDuplicate):
		return NewDuplicateError("Resource", "", "")
	case errors.Is(err, ErrInvalidCredentials):
		return NewInvalidCredentialsError()
	case errors.Is(err, ErrExpiredToken):
		return NewExpiredTokenError()
	case errors.Is(err, ErrInvalidToken):
		return NewInvalidTokenError()
	case errors.Is(err, ErrInvalidLink):
		return NewInvalidLinkError()
	case errors.Is(err, ErrExpiredOrInvalidToken):
		return NewExpiredOrInvalidResetTokenError()
	case errors.Is(err, ErrRateLimited):
		return NewRateLimitedError()
	case errors.Is(err, ErrEmailDelivery):
		return NewEmailDeliveryError(err)
	}

	if dbErr := parseDriverError(err); dbErr != nil {
		return dbErr
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint"):
		return &AppError{
			Err:        ErrDuplicate,
			StatusCode: http.StatusConflict,
			Message:    constants.MsgResourceExists,
			DevInfo:    err.Error(),
		}
	case strings.Contains(errMsg, "no rows"):
		return &AppError{
			Err:        ErrNotFound,
			StatusCode: http.StatusNotFound,
			Message:    constants.MsgResourceNotFound,
			DevInfo:    err.Error(),
		}
	}

	return NewInternalServerError(err)
}

// parseDriverError maps constraint violations from any of the supported
// SQL drivers onto the same application errors.
func parseDriverError(err error) *AppError {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return constraintError(string(pqErr.Code), pqErr.Constraint, pqErr.Column, pqErr.Error())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return constraintError(pgErr.Code, pgErr.ConstraintName, pgErr.ColumnName, pgErr.Error())
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case constants.MySQLErrorDuplicateEntry:
			return constraintError(constants.PGErrorDuplicateConstraint, "", "", myErr.Error())
		case constants.MySQLErrorNoReferencedRow, constants.MySQLErrorRowIsReferenced:
			return constraintError(constants.PGErrorForeignKeyConstraint, "", "", myErr.Error())
		case constants.MySQLErrorColumnCannotBeNull:
			return constraintError(constants.PGErrorNotNullConstraint, "", mysqlColumn(myErr.Message), myErr.Error())
		}
	}

	return nil
}

// constraintError builds the AppError for an SQLSTATE-style constraint code.
func constraintError(code, constraint, column, devInfo string) *AppError {
	switch code {
	case constants.PGErrorDuplicateConstraint:
		field := ""
		if _, after, ok := strings.Cut(constraint, "idx_"); ok {
			field = after
		}
		return &AppError{
			Err:        ErrDuplicate,
			StatusCode: http.StatusConflict,
			Message:    constants.MsgResourceExists,
			DevInfo:    devInfo,
			Field:      field,
		}
	case constants.PGErrorForeignKeyConstraint:
		return &AppError{
			Err:        ErrBadRequest,
			StatusCode: http.StatusBadRequest,
			Message:    "This operation violates a foreign key constraint",
			DevInfo:    devInfo,
		}
	case constants.PGErrorNotNullConstraint:
		return &AppError{
			Err:        ErrValidation,
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("The %s field cannot be empty", column),
			DevInfo:    devInfo,
			Field:      column,
		}
	}
	return nil
}

// mysqlColumn pulls the column name out of "Column 'name' cannot be null".
func mysqlColumn(message string) string {
	_, rest, ok := strings.Cut(message, "'")
	if !ok {
		return ""
	}
	column, _, _ := strings.Cut(rest, "'")
	return column
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if an error is a duplicate resource error
func IsDuplicateError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusConflict
	}
	return errors.Is(err, ErrDuplicate)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return errors.Is(appErr.Err, ErrValidation)
	}
	return errors.Is(err, ErrValidation)
}

// StatusCode returns the HTTP status code for an error
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
