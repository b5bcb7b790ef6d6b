package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/isdelr/salesdash-be/internal/apperr"
)

// Claims defines the JWT claims structure. Subject carries the username.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens. The secret is fixed
// at construction and never mutated, so a TokenManager is safe for
// concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager signing with secret; tokens expire
// ttl after issuance.
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenManager{secret: key, ttl: ttl, now: time.Now}
}

// TTL returns the expiry horizon of issued tokens.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue creates a signed token binding username and userID.
func (m *TokenManager) Issue(username string, userID int64) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", apperr.Token("failed to sign token", err)
	}
	return signed, nil
}

// Verify parses tokenStr, checks its signature and expiry, and returns its
// claims. Any malformed, unsigned, foreign-signed or expired token fails.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, apperr.Token("missing token", nil)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Token("token expired", err)
		}
		return nil, apperr.Token("invalid token", err)
	}
	if !token.Valid {
		return nil, apperr.Token("invalid token", nil)
	}
	if claims.Username == "" || claims.Subject != claims.Username || claims.UserID <= 0 {
		return nil, apperr.Token("invalid token", fmt.Errorf("inconsistent identity claims"))
	}
	return claims, nil
}

// ExtractUsername returns the username claim of a valid token.
func (m *TokenManager) ExtractUsername(tokenStr string) (string, error) {
	claims, err := m.Verify(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

// ExtractUserID returns the user id claim of a valid token.
func (m *TokenManager) ExtractUserID(tokenStr string) (int64, error) {
	claims, err := m.Verify(tokenStr)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
