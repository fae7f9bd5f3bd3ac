// Package auth provides authentication and authorization for the storefront API:
// Argon2id password hashing, JWT access and refresh tokens, stateless password
// reset tokens and the admin-only permission predicate.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// CallerContextKey stores the *Caller of an authenticated request.
const CallerContextKey ContextKey = constants.CallerContextKey

// AuthProvider extracts a caller from a request.
type AuthProvider interface {
	// Authenticate returns (nil, nil) when the request carries no credentials
	// and an error when it carries invalid ones.
	Authenticate(r *http.Request) (*Caller, error)
}

// UserLookup loads the account a token was issued for.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// JWTAuthProvider implements bearer token authentication.
type JWTAuthProvider struct {
	jwtService JWTValidator
	users      UserLookup
}

// NewJWTAuthProvider creates a new JWTAuthProvider with the specified JWT
// validator and user lookup.
func NewJWTAuthProvider(jwtService JWTValidator, users UserLookup) *JWTAuthProvider {
	return &JWTAuthProvider{
		jwtService: jwtService,
		users:      users,
	}
}

// Authenticate implements AuthProvider for the Authorization: Bearer header.
//
// The account is reloaded on every request, so staff rights and the active
// flag are read from the directory rather than trusted from the token.
func (p *JWTAuthProvider) Authenticate(r *http.Request) (*Caller, error) {
	header := r.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return nil, nil
	}

	if !strings.HasPrefix(header, constants.BearerTokenPrefix) {
		return nil, utils.NewInvalidTokenError()
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerTokenPrefix))
	claims, err := p.jwtService.ValidateToken(token, constants.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := p.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, utils.NewUnauthorizedError(constants.MsgUserNotFound)
		}
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}
	if !user.IsActive {
		return nil, utils.NewUnauthorizedError(constants.MsgUserInactive)
	}

	return &Caller{UserID: user.ID, Username: user.Username, IsAdmin: user.IsStaff}, nil
}

// Identify attaches the caller to the request context. Requests without
// credentials continue anonymously; requests with bad credentials get 401.
func Identify(provider AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := provider.Authenticate(r)
			if err != nil {
				log.Info().
					Err(err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Authentication failed")
				utils.ErrorFromAppError(w, utils.ParseError(err))
				return
			}

			if caller != nil {
				log.Debug().
					Int64("user_id", caller.UserID).
					Str("username", caller.Username).
					Bool("is_admin", caller.IsAdmin).
					Msg("User authenticated")
				r = r.WithContext(WithCaller(r.Context(), caller))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, CallerContextKey, caller)
}

// CallerFromContext returns the caller of the request, or nil when anonymous.
func CallerFromContext(ctx context.Context) *Caller {
	caller, _ := ctx.Value(CallerContextKey).(*Caller)
	return caller
}
