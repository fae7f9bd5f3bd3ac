package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/models"
)

// ResetTokenGenerator issues stateless password reset tokens.
//
// A token is "<expiry>-<mac>" where expiry is a base 36 unix timestamp and mac
// is the hex HMAC-SHA256 of the user's id, password hash, salt, last login
// and the expiry. Nothing is stored: changing the password or signing in
// changes the MAC input, which invalidates every outstanding token.
type ResetTokenGenerator struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
}

// NewResetTokenGenerator creates a generator keyed with secret whose tokens
// stay valid for timeout.
func NewResetTokenGenerator(secret string, timeout time.Duration) *ResetTokenGenerator {
	return newResetTokenGeneratorWithClock(secret, timeout, time.Now)
}

func newResetTokenGeneratorWithClock(secret string, timeout time.Duration, now func() time.Time) *ResetTokenGenerator {
	if timeout <= 0 {
		timeout = constants.DefaultPasswordResetTimeout
	}
	return &ResetTokenGenerator{secret: []byte(secret), timeout: timeout, now: now}
}

// Make returns a token for the user's current state.
func (g *ResetTokenGenerator) Make(user *models.User) string {
	expiry := g.now().Add(g.timeout).Unix()
	return g.tokenFor(user, expiry)
}

// Check reports whether token was issued for the user's current state and has not expired.
func (g *ResetTokenGenerator) Check(user *models.User, token string) bool {
	if user == nil || token == "" {
		return false
	}

	tsPart, _, ok := strings.Cut(token, "-")
	if !ok {
		return false
	}
	expiry, err := strconv.ParseInt(tsPart, constants.ResetTokenTimestampBase, 64)
	if err != nil || expiry <= 0 {
		return false
	}

	expected := g.tokenFor(user, expiry)
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return false
	}

	return g.now().Unix() <= expiry
}

func (g *ResetTokenGenerator) tokenFor(user *models.User, expiry int64) string {
	ts := strconv.FormatInt(expiry, constants.ResetTokenTimestampBase)

	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(strconv.FormatInt(user.ID, 10)))
	mac.Write([]byte(user.PasswordHash))
	mac.Write([]byte(user.Salt))
	mac.Write([]byte(lastLoginStamp(user)))
	mac.Write([]byte(ts))

	return ts + "-" + hex.EncodeToString(mac.Sum(nil))
}

// lastLoginStamp truncates to whole seconds so the value survives a round
// trip through columns without fractional seconds.
func lastLoginStamp(user *models.User) string {
	if user.LastLogin == nil {
		return ""
	}
	return strconv.FormatInt(user.LastLogin.UTC().Unix(), 10)
}
