// Package auth issues and verifies the short-lived tokens that put an
// admin into privileged mode. Sessions themselves are issued upstream.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/propcore/backend/internal/infrastructure/config"
)

// DefaultPrivilegedTTL applies when no TTL is configured
const DefaultPrivilegedTTL = 15 * time.Minute

const tokenTypePrivileged = "privileged"

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrSubjectMismatch  = errors.New("token was issued for another user or tenant")
	ErrTokenRevoked     = errors.New("token has been revoked")
	ErrMissingSecret    = errors.New("privileged token secret is not configured")
)

// Claims are the privileged-mode token claims
type Claims struct {
	jwt.RegisteredClaims
	TenantID  string `json:"tenantId"`
	UserID    string `json:"userId"`
	TokenType string `json:"typ"`
}

// IssuedToken is a signed token and its expiry
type IssuedToken struct {
	Token     string    `json:"token"`
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PrivilegedTokenService signs and verifies privileged-mode tokens with HS256
type PrivilegedTokenService struct {
	secret  []byte
	ttl     time.Duration
	issuer  string
	revoked RevocationList
	now     func() time.Time
}

// NewPrivilegedTokenService creates a token service from security config
func NewPrivilegedTokenService(cfg config.SecurityConfig) (*PrivilegedTokenService, error) {
	if cfg.PrivilegedSecret == "" {
		return nil, ErrMissingSecret
	}
	ttl := cfg.PrivilegedTTL
	if ttl <= 0 {
		ttl = DefaultPrivilegedTTL
	}
	return &PrivilegedTokenService{
		secret: []byte(cfg.PrivilegedSecret),
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// SetRevocationList enables revocation checks on Verify
func (s *PrivilegedTokenService) SetRevocationList(list RevocationList) {
	s.revoked = list
}

// SetClock replaces the time source
func (s *PrivilegedTokenService) SetClock(now func() time.Time) {
	s.now = now
}

// TTL returns the lifetime of issued tokens
func (s *PrivilegedTokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token binding userID to tenantID
func (s *PrivilegedTokenService) Issue(userID, tenantID uuid.UUID) (*IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	jti := uuid.New().String()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID:  tenantID.String(),
		UserID:    userID.String(),
		TokenType: tokenTypePrivileged,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign privileged token: %w", err)
	}
	return &IssuedToken{Token: signed, ID: jti, ExpiresAt: expiresAt}, nil
}

// Parse validates signature, expiry and type and returns the claims
func (s *PrivilegedTokenService) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenTypePrivileged {
		return nil, ErrInvalidClaims
	}
	if claims.TenantID == "" || claims.UserID == "" || claims.ID == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Verify checks that tokenString is a live privileged token for userID in tenantID
func (s *PrivilegedTokenService) Verify(ctx context.Context, tokenString string, userID, tenantID uuid.UUID) (*Claims, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.UserID != userID.String() || claims.TenantID != tenantID.String() {
		return nil, ErrSubjectMismatch
	}
	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Revoke invalidates a token before its expiry. Without a revocation list
// configured it is a no-op.
func (s *PrivilegedTokenService) Revoke(ctx context.Context, claims *Claims) error {
	if s.revoked == nil || claims == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.RemainingTTL(s.now()))
}

// RemainingTTL returns the time left before the token expires at now
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if remaining := c.ExpiresAt.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}
