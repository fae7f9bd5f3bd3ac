package service

import (
	"context"
	"fmt"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/repository"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// PasswordResetService runs the forgotten-password flow: mailing reset links
// and accepting a new password against a link's uid and token.
type PasswordResetService struct {
	userRepo  repository.UserRepository
	tokens    *auth.ResetTokenGenerator
	validator *auth.PasswordValidator
	hasher    *auth.PasswordHasher
	sender    EmailSender
	settings  *config.PasswordResetSettings
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(
	userRepo repository.UserRepository,
	tokens *auth.ResetTokenGenerator,
	validator *auth.PasswordValidator,
	hasher *auth.PasswordHasher,
	sender EmailSender,
	settings *config.PasswordResetSettings,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:  userRepo,
		tokens:    tokens,
		validator: validator,
		hasher:    hasher,
		sender:    sender,
		settings:  settings,
	}
}

// RequestReset mails a reset link to every active account with a usable
// password registered under email. Unknown addresses are not an error.
//
// With the fail policy the first delivery error is returned and no further
// mail is sent; with the conceal policy delivery errors are only logged.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	links, err := s.resetLinks(ctx, email)
	if err != nil {
		return err
	}

	if len(links) == 0 {
		utils.LogPasswordReset(constants.LogEventResetSend, 0, email, "no eligible account")
		return nil
	}

	for _, link := range links {
		msg := EmailMessage{
			ToName:    link.Username,
			ToAddress: link.Email,
			Subject:   constants.ResetEmailSubject,
			Body:      fmt.Sprintf(constants.ResetEmailBodyFormat, link.Username, link.URL),
		}

		if err := s.sender.Send(ctx, msg); err != nil {
			if s.settings.ConcealSendFailures() {
				utils.LogPasswordReset(constants.LogEventResetSend, link.UserID, link.Email, "delivery failed, concealed")
				continue
			}
			return utils.NewEmailDeliveryError(err)
		}

		utils.LogPasswordReset(constants.LogEventResetSend, link.UserID, link.Email, "")
	}

	return nil
}

// resetLinks builds one link per eligible account.
func (s *PasswordResetService) resetLinks(ctx context.Context, email string) ([]models.ResetLink, error) {
	users, err := s.userRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up users by email: %w", err)
	}

	links := make([]models.ResetLink, 0, len(users))
	for _, user := range users {
		if !user.IsActive || !user.HasUsablePassword() {
			continue
		}
		uid := auth.EncodeUID(user.ID)
		token := s.tokens.Make(user)
		links = append(links, models.ResetLink{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
			URL:      s.settings.ResetLink(uid, token),
		})
	}
	return links, nil
}

// ConfirmReset sets a new password once the link checks out. The checks run
// in order and stop at the first failure: the uid must name an active
// account, the token must match that account's current state, and the new
// password must pass validation.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, req *models.PasswordResetConfirm) error {
	id, err := auth.DecodeUID(req.UID)
	if err != nil {
		utils.LogPasswordReset(constants.LogEventResetReject, 0, "", "undecodable uid")
		return utils.NewInvalidLinkError()
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogPasswordReset(constants.LogEventResetReject, id, "", "unknown user")
			return utils.NewInvalidLinkError()
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		utils.LogPasswordReset(constants.LogEventResetReject, user.ID, user.Email, "inactive user")
		return utils.NewInvalidLinkError()
	}

	if !s.tokens.Check(user, req.Token) {
		utils.LogPasswordReset(constants.LogEventResetReject, user.ID, user.Email, "token mismatch or expired")
		return utils.NewExpiredOrInvalidResetTokenError()
	}

	if problems := s.validator.Validate(req.NewPassword, user); len(problems) > 0 {
		utils.LogPasswordReset(constants.LogEventResetReject, user.ID, user.Email, "weak password")
		return utils.NewWeakPasswordError("new_password", problems)
	}

	hash, salt, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.SetPassword(ctx, user.ID, hash, salt); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}

	utils.LogPasswordReset(constants.LogEventResetDone, user.ID, user.Email, "")
	return nil
}
