package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/repository"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// AuthService exchanges credentials for JWT token pairs.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService auth.TokenIssuer
	hasher     *auth.PasswordHasher
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtService auth.TokenIssuer, hasher *auth.PasswordHasher) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		hasher:     hasher,
		now:        time.Now,
	}
}

// ObtainTokens verifies username and password and returns a fresh access and
// refresh token. Unknown users, wrong passwords and inactive accounts all
// produce the same invalid-credentials error.
func (s *AuthService) ObtainTokens(ctx context.Context, req *models.TokenObtainRequest) (*models.TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if utils.IsNotFoundError(err) {
			// Hash anyway so an unknown username costs as much as a wrong password.
			_, _, _ = s.hasher.Hash(req.Password)
			utils.LogAuth(constants.LogEventLogin, 0, req.Username, false, "user not found")
			return nil, utils.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash, user.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		utils.LogAuth(constants.LogEventLogin, user.ID, user.Username, false, "invalid password")
		return nil, utils.NewInvalidCredentialsError()
	}
	if !user.IsActive {
		utils.LogAuth(constants.LogEventLogin, user.ID, user.Username, false, "inactive account")
		return nil, utils.NewInvalidCredentialsError()
	}

	now := s.now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	access, _, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, _, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	utils.LogAuth(constants.LogEventLogin, user.ID, user.Username, true, "")
	return &models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The user
// is reloaded so that deactivation or removal takes effect immediately.
func (s *AuthService) Refresh(ctx context.Context, req *models.TokenRefreshRequest) (*models.AccessToken, error) {
	claims, err := s.jwtService.ValidateToken(req.Refresh, constants.TokenTypeRefresh)
	if err != nil {
		utils.LogAuth(constants.LogEventRefresh, 0, "", false, "invalid refresh token")
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth(constants.LogEventRefresh, claims.UserID, claims.Username, false, "user no longer exists")
			return nil, utils.NewInvalidTokenError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		utils.LogAuth(constants.LogEventRefresh, user.ID, user.Username, false, "inactive account")
		return nil, utils.NewInvalidTokenError()
	}

	access, _, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	utils.LogAuth(constants.LogEventRefresh, user.ID, user.Username, true, "")
	return &models.AccessToken{Access: access}, nil
}
