package pagebuilder

import (
	"crypto/sha256"
	"time"

	"github.com/gorilla/securecookie"
)

// ActionTokens issues and verifies per-action mutation tokens. A token is an
// HMAC-signed, timestamped value bound to one action name, so a token minted
// for the builder screen cannot be replayed against delete, and it stops
// verifying after the configured TTL.
type ActionTokens struct {
	codec *securecookie.SecureCookie
}

// NewActionTokens derives the signing key from secret.
func NewActionTokens(secret string, ttl time.Duration) *ActionTokens {
	key := sha256.Sum256([]byte("pagebuilder-action-tokens:" + secret))
	codec := securecookie.New(key[:], nil)
	codec.MaxAge(int(ttl / time.Second))
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &ActionTokens{codec: codec}
}

// Token returns a fresh token for action, or "" if encoding fails.
func (t *ActionTokens) Token(action string) string {
	token, err := t.codec.Encode(action, action)
	if err != nil {
		return ""
	}
	return token
}

// VerifyMutationToken reports whether token was issued for action and has
// not expired.
func (t *ActionTokens) VerifyMutationToken(action, token string) bool {
	if token == "" {
		return false
	}
	var got string
	if err := t.codec.Decode(action, token, &got); err != nil {
		return false
	}
	return got == action
}
