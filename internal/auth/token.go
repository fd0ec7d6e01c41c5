// Package auth issues and verifies tokens with the same shape the Asknalyze
// backend uses, for local development against a stub or a dev backend.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Profile carries the optional profile claims placed next to sub.
type Profile struct {
	UserID       string `json:"userId,omitempty"`
	FullName     string `json:"fullName,omitempty"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
	Experience   string `json:"experience,omitempty"`
}

// Claims is the backend's token payload: the email as subject plus profile.
type Claims struct {
	jwt.RegisteredClaims
	Profile
}

// IssueToken creates an HS256 token for email, valid for ttl.
func IssueToken(secret []byte, email string, profile Profile, ttl time.Duration) (string, error) {
	if len(secret) < 32 {
		return "", fmt.Errorf("signing secret must be at least 32 bytes")
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Profile: profile,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken checks the signature and expiry of an HS256 token.
func VerifyToken(secret []byte, tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
