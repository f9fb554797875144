package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed encoding, signature mismatch, or expiry.
var ErrInvalidToken = errors.New("invalid token")

// Payload carries the identity claims embedded in a session token.
type Payload struct {
	ID    string
	Email string
	Name  string
}

// TokenIssuer issues and verifies stateless session tokens. The gate depends
// on this interface only, so the signing scheme can be swapped without
// touching request handling.
type TokenIssuer interface {
	Generate(payload Payload) (string, time.Time, error)
	Verify(token string) (Payload, error)
}

// TokenManager implements TokenIssuer with HMAC-signed JWTs.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. A non-positive ttl falls back to the
// 24 hour session lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the JWT payload.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Generate builds and signs a session token for the payload. The caller is
// responsible for populating every field.
func (tm *TokenManager) Generate(payload Payload) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		ID:    payload.ID,
		Email: payload.Email,
		Name:  payload.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks the signature and expiry of a token and returns the original
// payload. Any failure yields ErrInvalidToken; no partial payload is ever
// returned.
func (tm *TokenManager) Verify(tokenStr string) (Payload, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return Payload{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Payload{}, ErrInvalidToken
	}
	return Payload{ID: claims.ID, Email: claims.Email, Name: claims.Name}, nil
}
