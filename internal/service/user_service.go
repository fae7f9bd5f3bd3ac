package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/repository"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// UserService handles account management outside the HTTP API: creating
// staff accounts and setting passwords from the command line.
type UserService struct {
	userRepo  repository.UserRepository
	hasher    *auth.PasswordHasher
	validator *auth.PasswordValidator
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, hasher *auth.PasswordHasher, validator *auth.PasswordValidator) *UserService {
	return &UserService{
		userRepo:  userRepo,
		hasher:    hasher,
		validator: validator,
	}
}

// SuperuserInput describes a staff account to create.
type SuperuserInput struct {
	Username string
	Email    string
	Password string
	// SkipValidation stores the password even if the validator rejects it.
	SkipValidation bool
}

// CreateSuperuser creates an active staff account.
func (s *UserService) CreateSuperuser(ctx context.Context, in SuperuserInput) (*models.User, error) {
	if err := utils.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if in.Email != "" && !utils.IsValidEmail(in.Email) {
		return nil, utils.NewValidationError("email", "Enter a valid email address.")
	}

	available, err := s.CheckUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, utils.NewDuplicateError("User", "username", in.Username)
	}

	user := models.NewUser(in.Username, in.Email)
	user.IsStaff = true

	if !in.SkipValidation {
		if problems := s.validator.Validate(in.Password, user); len(problems) > 0 {
			return nil, utils.NewWeakPasswordError("password", problems)
		}
	}

	user.PasswordHash, user.Salt, err = s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("Superuser created")
	return user.Sanitize(), nil
}

// ChangePassword validates and stores a new password for the named user.
func (s *UserService) ChangePassword(ctx context.Context, username, newPassword string, skipValidation bool) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if !skipValidation {
		if problems := s.validator.Validate(newPassword, user); len(problems) > 0 {
			return utils.NewWeakPasswordError("password", problems)
		}
	}

	passwordHash, salt, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.SetPassword(ctx, user.ID, passwordHash, salt); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Msg("User password changed")

	return nil
}

// CheckUsername reports whether username is still free.
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username availability: %w", err)
	}

	return !exists, nil
}
