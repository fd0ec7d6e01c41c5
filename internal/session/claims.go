package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload as issued by the auth backend.
type Claims struct {
	jwt.RegisteredClaims
	UserID       ClaimString `json:"userId,omitempty"`
	Email        ClaimString `json:"email,omitempty"`
	FullName     ClaimString `json:"fullName,omitempty"`
	Name         ClaimString `json:"name,omitempty"`
	Role         ClaimString `json:"role,omitempty"`
	Organization ClaimString `json:"organization,omitempty"`
	Experience   ClaimString `json:"experience,omitempty"`
}

// ClaimString is a string claim that tolerates JSON numbers, so ids and
// experience values issued as numbers still decode.
type ClaimString string

func (c *ClaimString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ClaimString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("claim must be a string or number: %w", err)
	}
	*c = ClaimString(n.String())
	return nil
}

// User is the current user view, derived from token claims or the cached record.
type User struct {
	ID           string           `json:"id,omitempty"`
	Email        string           `json:"email,omitempty"`
	FullName     string           `json:"fullName,omitempty"`
	Role         string           `json:"role,omitempty"`
	Organization string           `json:"organization,omitempty"`
	Experience   string           `json:"experience,omitempty"`
	ExpiresAt    *jwt.NumericDate `json:"exp,omitempty"`
	IssuedAt     *jwt.NumericDate `json:"iat,omitempty"`
}

// UnmarshalJSON accepts userId as an alias of id in cached records.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var raw struct {
		plain
		ID     ClaimString `json:"id,omitempty"`
		UserID ClaimString `json:"userId,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = User(raw.plain)
	u.ID = firstNonEmpty(string(raw.ID), string(raw.UserID))
	return nil
}

// User maps the claims onto a User with a fixed precedence per field.
func (c *Claims) User() *User {
	return &User{
		ID:           firstNonEmpty(string(c.UserID), c.Subject),
		Email:        firstNonEmpty(c.Subject, string(c.Email)),
		FullName:     firstNonEmpty(string(c.FullName), string(c.Name)),
		Role:         string(c.Role),
		Organization: string(c.Organization),
		Experience:   string(c.Experience),
		ExpiresAt:    c.ExpiresAt,
		IssuedAt:     c.IssuedAt,
	}
}

// hasExpiry reports whether an exp claim is present. An exp of zero counts
// as absent.
func (c *Claims) hasExpiry() bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Unix() != 0
}

// Expired reports whether the token carries an expiry before now. Tokens
// without one never expire.
func (c *Claims) Expired(now time.Time) bool {
	return c.hasExpiry() && c.ExpiresAt.Before(now)
}

// parsePayload splits a token and decodes its middle segment. The signature
// is not verified; that is the server's job.
func parsePayload(parser *jwt.Parser, token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenDecode, err)
	}

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '{' {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrTokenDecode)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenDecode, err)
	}
	clampExpiry(&claims, payload)

	return &claims, nil
}

// maxExpiry is the latest exp kept as issued. NumericDate converts seconds to
// int64 without a range check, so anything later is pinned here.
var maxExpiry = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

func clampExpiry(c *Claims, payload []byte) {
	var raw struct {
		Exp *float64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil || raw.Exp == nil {
		return
	}
	if *raw.Exp > float64(maxExpiry.Unix()) {
		c.ExpiresAt = jwt.NewNumericDate(maxExpiry)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
