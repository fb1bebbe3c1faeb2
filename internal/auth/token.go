// Package auth implements password hashing and bearer token issue/verify.
// The token service holds its signing secret and expiry from configuration;
// verification is a pure function of the raw token string.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/syedhamza2135/Portfolio-Pulse/internal/config"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/models"
)

const issuer = "portfolio-pulse-api"

// ErrInvalidToken is returned by Verify for any malformed, mis-signed, or
// expired token. Callers treat all of these as unauthenticated.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated principal resolved from a verified token.
type Identity struct {
	UserID uint
	Email  string
}

// Claims represents the claims carried in issued tokens.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed bearer tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a TokenService from application configuration.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.JWTExpiry,
	}
}

// Issue produces a signed token for the user, expiring after the configured
// duration (24h by default). There is no revocation list; a leaked token
// stays valid until it expires.
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry of a raw token and returns the
// identity it carries. Any failure yields ErrInvalidToken.
func (s *TokenService) Verify(raw string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
