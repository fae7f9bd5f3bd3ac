// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling, categorization,
// and messaging. User-facing messages never reveal whether an account exists.
package constants

// Error Types define the categories of errors that can occur in the application.
const (
	ErrorNotFound           = "resource not found"
	ErrorUnauthorized       = "unauthorized access"
	ErrorForbidden          = "forbidden access"
	ErrorBadRequest         = "invalid request"
	ErrorInternalServer     = "internal server error"
	ErrorValidation         = "validation error"
	ErrorDuplicate          = "duplicate resource"
	ErrorInvalidCredentials = "invalid credentials"
	ErrorExpiredToken       = "expired token"
	ErrorInvalidToken       = "invalid token"
	ErrorInvalidLink        = "invalid reset link"
	ErrorResetToken         = "invalid or expired reset token"
	ErrorWeakPassword       = "weak password"
	ErrorRateLimited        = "rate limited"
	ErrorEmailDelivery      = "email delivery failed"
)

// User-Facing Error Messages define standardized messages that can be safely presented to users.
const (
	MsgAuthRequired        = "Authentication required"
	MsgInvalidPassword     = "No active account found with the given credentials"
	MsgAccessDenied        = "You do not have permission to perform this action."
	MsgInternalServerError = "An internal server error occurred"
	MsgTokenExpired        = "Token is invalid or expired"
	MsgUserNotFound        = "User not found"
	MsgUserInactive        = "User is inactive"
	MsgInvalidToken        = "Token is invalid or expired"
	MsgRequestBodyTooLarge = "Request body too large"
	MsgEmptyRequestBody    = "Request body must not be empty"
	MsgMalformedJSON       = "Request body contains malformed JSON"
	MsgResourceNotFound    = "Not found."
	MsgResourceExists      = "A resource with the same unique identifier already exists"
	MsgMethodNotAllowed    = "This method is not allowed for this resource"
	MsgRateLimited         = "Too many requests, please try again later"
	MsgEmailDelivery       = "Could not send the password reset email"
	MsgUnknownCategory     = "Invalid pk \"%d\" - object does not exist."
)

// Password reset messages.
const (
	MsgResetEmailSent       = "If this email exists, a reset link has been sent."
	MsgInvalidResetLink     = "Invalid reset link."
	MsgInvalidOrExpiredLink = "Reset link is invalid or has expired."
	MsgPasswordResetDone    = "Password has been reset successfully."
	ResetEmailSubject       = "Password Reset Requested"
	ResetEmailBodyFormat    = "Hi %s,\n\nYou requested a password reset.\n\nClick the link below to reset your password:\n%s\n\nIf you didn't request this, you can ignore this email."
)

// Database Error Types help identify specific types of database constraint violations.
const (
	PGErrorDuplicateConstraint  = "23505"
	PGErrorForeignKeyConstraint = "23503"
	PGErrorNotNullConstraint    = "23502"

	MySQLErrorDuplicateEntry     = 1062
	MySQLErrorNoReferencedRow    = 1452
	MySQLErrorRowIsReferenced    = 1451
	MySQLErrorColumnCannotBeNull = 1048
)

// Logger Constants define values used for structured logging.
const (
	LogCategoryAuth     = "auth"
	LogCategoryReset    = "password_reset"
	LogEventLogin       = "login"
	LogEventRefresh     = "refresh"
	LogEventResetSend   = "reset_requested"
	LogEventResetDone   = "reset_confirmed"
	LogEventResetReject = "reset_rejected"
	LogRedactedValue    = "[REDACTED]"
)
