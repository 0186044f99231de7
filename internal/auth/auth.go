// Package auth issues and checks the admin bearer tokens that guard the
// scoring procedures.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"cricket-score/internal/config"
	"cricket-score/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const issuerName = "cricket-score"

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Issuer struct {
	secret    []byte
	ttl       time.Duration
	adminUser string
	adminPass string
	now       func() time.Time
	logger    zerolog.Logger
}

func NewIssuer(cfg *config.Config, logger zerolog.Logger) *Issuer {
	return &Issuer{
		secret:    []byte(cfg.JWTSecret),
		ttl:       cfg.TokenTTL,
		adminUser: cfg.AdminUser,
		adminPass: cfg.AdminPass,
		now:       time.Now,
		logger:    logger,
	}
}

// Login checks the single admin credential pair and signs a token for it.
func (i *Issuer) Login(username, password string) (*Token, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(i.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(i.adminPass)) == 1
	if !userOK || !passOK {
		i.logger.Warn().Str("username", username).Msg("rejected login")
		return nil, fmt.Errorf("bad credentials: %w", domain.ErrUnauthorized)
	}

	now := i.now()
	expires := now.Add(i.ttl)
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	i.logger.Info().Str("username", username).Time("expires_at", expires).Msg("admin logged in")
	return &Token{Token: signed, ExpiresAt: expires}, nil
}

// Verify parses a raw token and returns its claims.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("missing token: %w", domain.ErrUnauthorized)
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token has expired: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("invalid token: %v: %w", err, domain.ErrUnauthorized)
	}
	if !token.Valid || claims.Username != i.adminUser {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	return claims, nil
}

// VerifyHeader accepts an Authorization header value of the form "Bearer <token>".
func (i *Issuer) VerifyHeader(header string) (*Claims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, fmt.Errorf("missing bearer token: %w", domain.ErrUnauthorized)
	}
	return i.Verify(strings.TrimSpace(raw))
}

type contextKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the verified claims, or nil for anonymous callers.
func FromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(contextKey{}).(*Claims)
	return c
}
