package auth

import (
	"testing"
	"time"

	"cricket-score/internal/config"
	"cricket-score/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(now time.Time) *Issuer {
	i := NewIssuer(&config.Config{
		AdminUser: "admin",
		AdminPass: "pass",
		JWTSecret: "secret",
		TokenTTL:  time.Hour,
	}, zerolog.Nop())
	i.now = func() time.Time { return now }
	return i
}

func TestLoginAndVerify(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(now)

	tok, err := issuer.Login("admin", "pass")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), tok.ExpiresAt)

	claims, err := issuer.VerifyHeader("Bearer " + tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	t.Run("expired", func(t *testing.T) {
		issuer.now = func() time.Time { return now.Add(2 * time.Hour) }
		defer func() { issuer.now = func() time.Time { return now } }()
		_, err := issuer.Verify(tok.Token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("other secret", func(t *testing.T) {
		other := newTestIssuer(now)
		other.secret = []byte("different")
		_, err := other.Verify(tok.Token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestLoginRejects(t *testing.T) {
	issuer := newTestIssuer(time.Now())
	for _, creds := range [][2]string{{"admin", "wrong"}, {"root", "pass"}, {"", ""}} {
		_, err := issuer.Login(creds[0], creds[1])
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
}

func TestVerifyRejects(t *testing.T) {
	issuer := newTestIssuer(time.Now())

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"no scheme", "token"},
		{"garbage", "Bearer abc.def.ghi"},
		{"unsigned", "Bearer " + unsigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.VerifyHeader(tt.header)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}
