package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

func newAuthService(repo *MockUserRepository, jwt *MockJWTService) *AuthService {
	svc := NewAuthService(repo, jwt, fastHasher())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestObtainTokens(t *testing.T) {
	repo := NewMockUserRepository()
	user := activeUser(repo, "alice", "alice@example.com", "correct horse")
	svc := newAuthService(repo, &MockJWTService{})

	pair, err := svc.ObtainTokens(context.Background(), &models.TokenObtainRequest{Username: "alice", Password: "correct horse"})
	if err != nil {
		t.Fatalf("ObtainTokens() error = %v", err)
	}
	if pair.Access != "access-alice" || pair.Refresh != "refresh-alice" {
		t.Errorf("ObtainTokens() = %+v", pair)
	}
	if user.LastLogin == nil || !user.LastLogin.Equal(svc.now()) {
		t.Errorf("LastLogin = %v, want %v", user.LastLogin, svc.now())
	}
}

func TestObtainTokensRejects(t *testing.T) {
	repo := NewMockUserRepository()
	activeUser(repo, "alice", "alice@example.com", "correct horse")
	inactive := activeUser(repo, "bob", "bob@example.com", "correct horse")
	inactive.IsActive = false
	unusable := activeUser(repo, "carol", "carol@example.com", "correct horse")
	unusable.PasswordHash = "!unusable"

	svc := newAuthService(repo, &MockJWTService{})

	tests := []struct {
		name string
		req  models.TokenObtainRequest
	}{
		{"unknown user", models.TokenObtainRequest{Username: "mallory", Password: "correct horse"}},
		{"wrong password", models.TokenObtainRequest{Username: "alice", Password: "battery staple"}},
		{"inactive user", models.TokenObtainRequest{Username: "bob", Password: "correct horse"}},
		{"unusable password", models.TokenObtainRequest{Username: "carol", Password: "correct horse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ObtainTokens(context.Background(), &tt.req)
			if !errors.Is(err, utils.ErrInvalidCredentials) {
				t.Fatalf("ObtainTokens() error = %v, want invalid credentials", err)
			}
			if utils.StatusCode(err) != 401 {
				t.Errorf("StatusCode = %d, want 401", utils.StatusCode(err))
			}
		})
	}

	if inactive.LastLogin != nil {
		t.Error("failed login must not touch last_login")
	}
}

func TestObtainTokensErrors(t *testing.T) {
	repo := NewMockUserRepository()
	activeUser(repo, "alice", "alice@example.com", "correct horse")

	svc := newAuthService(repo, &MockJWTService{generateErr: errBoom})
	if _, err := svc.ObtainTokens(context.Background(), &models.TokenObtainRequest{Username: "alice", Password: "correct horse"}); !errors.Is(err, errBoom) {
		t.Errorf("generate failure: got %v", err)
	}

	repo.err = errBoom
	if _, err := svc.ObtainTokens(context.Background(), &models.TokenObtainRequest{Username: "alice", Password: "x"}); !errors.Is(err, errBoom) {
		t.Errorf("lookup failure: got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	repo := NewMockUserRepository()
	alice := activeUser(repo, "alice", "alice@example.com", "correct horse")
	bob := activeUser(repo, "bob", "bob@example.com", "correct horse")
	bob.IsActive = false

	jwtSvc := &MockJWTService{
		validateFunc: func(token, tokenType string) (*auth.CustomClaims, error) {
			if tokenType != constants.TokenTypeRefresh {
				t.Errorf("validated as %q, want refresh", tokenType)
			}
			switch token {
			case "refresh-alice":
				return &auth.CustomClaims{UserID: alice.ID, Username: "alice"}, nil
			case "refresh-bob":
				return &auth.CustomClaims{UserID: bob.ID, Username: "bob"}, nil
			case "refresh-ghost":
				return &auth.CustomClaims{UserID: 999, Username: "ghost"}, nil
			case "expired":
				return nil, utils.NewExpiredTokenError()
			}
			return nil, utils.NewInvalidTokenError()
		},
	}
	svc := newAuthService(repo, jwtSvc)

	got, err := svc.Refresh(context.Background(), &models.TokenRefreshRequest{Refresh: "refresh-alice"})
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got.Access != "access-alice" {
		t.Errorf("Access = %q", got.Access)
	}

	for _, token := range []string{"refresh-bob", "refresh-ghost", "expired", "garbage"} {
		_, err := svc.Refresh(context.Background(), &models.TokenRefreshRequest{Refresh: token})
		if utils.StatusCode(err) != 401 {
			t.Errorf("Refresh(%q) status = %d, want 401", token, utils.StatusCode(err))
		}
	}
}
