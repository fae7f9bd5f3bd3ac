package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/storefront/internal/auth"
	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/models"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

type resetFixture struct {
	repo    *MockUserRepository
	sender  *recordingSender
	tokens  *auth.ResetTokenGenerator
	service *PasswordResetService
}

func newResetFixture(policy string) *resetFixture {
	repo := NewMockUserRepository()
	sender := &recordingSender{}
	tokens := auth.NewResetTokenGenerator("reset-secret", time.Hour)
	settings := &config.PasswordResetSettings{
		Secret:            "reset-secret",
		Timeout:           time.Hour,
		FrontendURL:       "https://shop.example.com/",
		SendFailurePolicy: policy,
	}
	return &resetFixture{
		repo:    repo,
		sender:  sender,
		tokens:  tokens,
		service: NewPasswordResetService(repo, tokens, auth.NewPasswordValidator(), fastHasher(), sender, settings),
	}
}

func TestRequestReset(t *testing.T) {
	f := newResetFixture(constants.SendFailurePolicyFail)
	alice := activeUser(f.repo, "alice", "shared@example.com", "old-password-1")
	bob := activeUser(f.repo, "bob", "SHARED@example.com", "old-password-2")

	inactive := activeUser(f.repo, "carol", "shared@example.com", "old-password-3")
	inactive.IsActive = false
	unusable := activeUser(f.repo, "dave", "shared@example.com", "x")
	unusable.PasswordHash = "!abc"

	require.NoError(t, f.service.RequestReset(context.Background(), "Shared@Example.com"))
	require.Len(t, f.sender.sent, 2)

	for i, user := range []*models.User{alice, bob} {
		msg := f.sender.sent[i]
		assert.Equal(t, user.Email, msg.ToAddress)
		assert.Equal(t, constants.ResetEmailSubject, msg.Subject)
		assert.True(t, strings.HasPrefix(msg.Body, "Hi "+user.Username+","))

		prefix := "https://shop.example.com/reset-password/" + auth.EncodeUID(user.ID) + "/"
		idx := strings.Index(msg.Body, prefix)
		require.GreaterOrEqual(t, idx, 0, "link missing from body")

		rest := msg.Body[idx+len(prefix):]
		token, _, ok := strings.Cut(rest, "/")
		require.True(t, ok)
		assert.True(t, f.tokens.Check(user, token))
	}
}

func TestRequestResetUnknownEmail(t *testing.T) {
	f := newResetFixture(constants.SendFailurePolicyFail)
	activeUser(f.repo, "alice", "alice@example.com", "old-password-1")

	assert.NoError(t, f.service.RequestReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, f.sender.sent)
}

func TestRequestResetSendFailure(t *testing.T) {
	t.Run("fail policy surfaces the error", func(t *testing.T) {
		f := newResetFixture(constants.SendFailurePolicyFail)
		activeUser(f.repo, "alice", "alice@example.com", "old-password-1")
		f.sender.err = errBoom

		err := f.service.RequestReset(context.Background(), "alice@example.com")
		require.Error(t, err)
		assert.True(t, errors.Is(err, utils.ErrEmailDelivery))
		assert.Equal(t, 500, utils.StatusCode(err))
	})

	t.Run("conceal policy hides it", func(t *testing.T) {
		f := newResetFixture(constants.SendFailurePolicyConceal)
		activeUser(f.repo, "alice", "alice@example.com", "old-password-1")
		f.sender.err = errBoom

		assert.NoError(t, f.service.RequestReset(context.Background(), "alice@example.com"))
	})

	t.Run("lookup failure", func(t *testing.T) {
		f := newResetFixture(constants.SendFailurePolicyConceal)
		f.repo.err = errBoom
		assert.Error(t, f.service.RequestReset(context.Background(), "alice@example.com"))
	})
}

func TestConfirmReset(t *testing.T) {
	f := newResetFixture(constants.SendFailurePolicyFail)
	user := activeUser(f.repo, "alice", "alice@example.com", "old-password-1")
	token := f.tokens.Make(user)

	err := f.service.ConfirmReset(context.Background(), &models.PasswordResetConfirm{
		UID:         auth.EncodeUID(user.ID),
		Token:       token,
		NewPassword: "quiet-harbor-lamp-42",
	})
	require.NoError(t, err)

	ok, err := fastHasher().Verify("quiet-harbor-lamp-42", user.PasswordHash, user.Salt)
	require.NoError(t, err)
	assert.True(t, ok)

	// The password change invalidates the token that was just used.
	assert.False(t, f.tokens.Check(user, token))
	err = f.service.ConfirmReset(context.Background(), &models.PasswordResetConfirm{
		UID:         auth.EncodeUID(user.ID),
		Token:       token,
		NewPassword: "another-quiet-lamp-43",
	})
	assert.True(t, errors.Is(err, utils.ErrExpiredOrInvalidToken))
}

func TestConfirmResetGates(t *testing.T) {
	f := newResetFixture(constants.SendFailurePolicyFail)
	user := activeUser(f.repo, "alice", "alice@example.com", "old-password-1")
	inactive := activeUser(f.repo, "bob", "bob@example.com", "old-password-2")
	inactive.IsActive = false

	valid := f.tokens.Make(user)

	tests := []struct {
		name    string
		req     models.PasswordResetConfirm
		wantErr error
	}{
		{"undecodable uid", models.PasswordResetConfirm{UID: "%%%", Token: valid, NewPassword: "quiet-harbor-lamp-42"}, utils.ErrInvalidLink},
		{"unknown user", models.PasswordResetConfirm{UID: auth.EncodeUID(999), Token: valid, NewPassword: "quiet-harbor-lamp-42"}, utils.ErrInvalidLink},
		{"inactive user", models.PasswordResetConfirm{UID: auth.EncodeUID(inactive.ID), Token: f.tokens.Make(inactive), NewPassword: "quiet-harbor-lamp-42"}, utils.ErrInvalidLink},
		{"bad token", models.PasswordResetConfirm{UID: auth.EncodeUID(user.ID), Token: "abc-123", NewPassword: "quiet-harbor-lamp-42"}, utils.ErrExpiredOrInvalidToken},
		// A bad token wins over a weak password.
		{"bad token and weak password", models.PasswordResetConfirm{UID: auth.EncodeUID(user.ID), Token: "abc-123", NewPassword: "12345678"}, utils.ErrExpiredOrInvalidToken},
		{"weak password", models.PasswordResetConfirm{UID: auth.EncodeUID(user.ID), Token: valid, NewPassword: "12345678"}, utils.ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := user.PasswordHash
			err := f.service.ConfirmReset(context.Background(), &tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, 400, utils.StatusCode(err))
			assert.Equal(t, before, user.PasswordHash)
		})
	}
}

func TestConfirmResetWeakPasswordDetails(t *testing.T) {
	f := newResetFixture(constants.SendFailurePolicyFail)
	user := activeUser(f.repo, "alice", "alice@example.com", "old-password-1")

	err := f.service.ConfirmReset(context.Background(), &models.PasswordResetConfirm{
		UID:         auth.EncodeUID(user.ID),
		Token:       f.tokens.Make(user),
		NewPassword: "12345678",
	})

	appErr := utils.ParseError(err)
	assert.Equal(t, "new_password", appErr.Field)
	assert.NotEmpty(t, appErr.Details)
}
