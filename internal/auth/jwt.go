// Package auth provides JWT issuance/verification and the HTTP middleware
// that guards protected routes.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers with username + password → account stored
// 2. User logs in → server issues a signed JWT carrying their id and username
// 3. Client sends "Authorization: Bearer <token>" on every protected call
// 4. Middleware validates the token and puts the Identity in the request
//    context; handlers never see the raw token
//
// WHY JWT?
// The token is stateless — no session table, no store lookup on verify. All
// the information needed (userID, username, expiry) is inside the signed
// token, and the HMAC signature ensures nobody can tamper with it without
// the secret key. The flip side is accepted by design: a token cannot be
// revoked before its expiry, and it stays valid even if the underlying user
// record changes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime is the fixed validity window of an issued token.
// After an hour the client must log in again.
const tokenLifetime = time.Hour

const issuer = "tipboard"

// Identity is the verified content of a token: who is making the request.
type Identity struct {
	UserID   string
	Username string
}

// TokenService signs and verifies identity tokens.
//
// It holds the HMAC secret used for both operations. The secret is injected
// at construction (not read from a global) so tests can use distinct keys and
// production can rotate them.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production:
//
//	JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. RegisteredClaims carries the standard fields
// (sub, iat, exp, iss); we add the username so protected handlers can show
// who the caller is without a store lookup.
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies. Fine for a single-server deployment.
func (s *TokenService) Generate(userID, username string) (string, error) {
	return s.GenerateWithDuration(userID, username, tokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry.
// Exported for tests that need an already-expired token.
func (s *TokenService) GenerateWithDuration(userID, username string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the Identity it
// encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - signature is valid (token wasn't tampered with)
//   - token is not expired
//   - issuer matches (rejects tokens minted by other apps sharing a secret)
//   - algorithm is HS256 (jwt.WithValidMethods prevents algorithm-confusion
//     attacks, where an attacker submits an unsigned "alg":"none" token)
//
// Any failure — malformed input, bad signature, expiry — comes back as an
// error; callers treat every variant identically (HTTP 401).
func (s *TokenService) Validate(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return &Identity{
		UserID:   c.Subject,
		Username: c.Username,
	}, nil
}
