package models

// PasswordResetRequest asks for a reset link to be mailed to every account using Email.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm completes a reset with the uid and token from the mailed link.
type PasswordResetConfirm struct {
	UID         string `json:"uid" validate:"required"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ResetLink is the material mailed to one account.
type ResetLink struct {
	UserID   int64
	Username string
	Email    string
	URL      string
}
