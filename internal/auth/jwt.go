// Package auth provides session tokens, password hashing, and the request
// authentication middleware.
//
// SESSION FLOW:
// 1. POST /api/auth/register creates the account (bcrypt-hashed password)
// 2. POST /api/auth/login verifies credentials and issues a signed JWT,
//    which the handler sets as an HttpOnly cookie
// 3. On subsequent requests the middleware reads the token from the cookie
//    (or the Authorization: Bearer header as a fallback), validates it, and
//    places the authenticated Principal in the request context
// 4. After the 1 hour expiry the token is rejected — there is no refresh
//    mechanism, the client logs in again
//
// The token is stateless: user id, username, and expiry are all inside the
// signed payload, so validation needs no database lookup.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/myboulders/api/internal/apperror"
)

// TokenLifetime is the absolute validity window of a session token.
const TokenLifetime = time.Hour

const issuer = "myboulders"

// Principal identifies an authenticated user, decoded from a valid token.
type Principal struct {
	ID       string
	Username string
}

// TokenService signs and validates session tokens with an HMAC secret.
// The same secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload: the standard registered claims plus the
// username, so /api/auth/me and ownership checks have it without a lookup.
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given user.
// The "sub" claim carries the user ID; expiry is now + TokenLifetime.
func (s *TokenService) Generate(userID, username string) (string, error) {
	return s.generateWithLifetime(userID, username, TokenLifetime)
}

// generateWithLifetime exists so the package tests can mint already-expired
// tokens without sleeping.
func (s *TokenService) generateWithLifetime(userID, username string, d time.Duration) (string, error) {
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

// Validate parses and verifies a token string and returns the Principal it
// encodes.
//
// Failure modes are kept distinct for the caller:
//   - expired token      → ErrUnauthorized("token has expired")
//   - bad signature etc. → ErrUnauthorized("invalid token")
//
// Restricting to HS256 via WithValidMethods blocks algorithm-confusion
// tokens; WithIssuer rejects tokens minted by other applications sharing the
// library defaults.
func (s *TokenService) Validate(tokenStr string) (Principal, error) {
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
			return Principal{}, apperror.Unauthorized("token has expired")
		}
		return Principal{}, apperror.Unauthorized("invalid token")
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return Principal{}, apperror.Unauthorized("invalid token")
	}

	return Principal{ID: c.Subject, Username: c.Username}, nil
}
