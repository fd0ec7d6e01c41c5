// Package session owns the stored bearer token and cached user record, answers
// whether the stored session is usable, and wires the token into outgoing HTTP
// requests.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/asknalyze/internal/telemetry"
)

const (
	// TokenKey is the storage key holding the raw bearer token.
	TokenKey = "token"

	// UserKey is the storage key holding the JSON encoded cached user.
	UserKey = "user"

	// DefaultSignInPath is where a rejected session is sent.
	DefaultSignInPath = "/signin"
)

// DefaultPublicPaths are the locations where a 401 is an expected answer
// (bad credentials) rather than a dead session.
var DefaultPublicPaths = []string{"/signin", "/register", "/forgot-password"}

// Storage persists session values by key.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Navigator exposes the current location and a way to leave it.
type Navigator interface {
	Path() string
	Redirect(path string)
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithSignInPath overrides where the 401 hook redirects to.
func WithSignInPath(path string) Option {
	return func(m *Manager) {
		m.signInPath = path
	}
}

// WithPublicPaths replaces the set of locations exempt from the 401 redirect.
func WithPublicPaths(paths ...string) Option {
	return func(m *Manager) {
		m.publicPaths = slices.Clone(paths)
	}
}

// Manager is the single source of truth for the stored session. Create one
// per process and share it.
type Manager struct {
	store       Storage
	nav         Navigator
	parser      *jwt.Parser
	now         func() time.Time
	signInPath  string
	publicPaths []string
}

// New creates a Manager backed by store. nav is used by the HTTP hooks; when
// nil, a 401 still ends the session but there is nowhere to redirect.
func New(store Storage, nav Navigator, opts ...Option) *Manager {
	if nav == nil {
		nav = stayPut{}
	}

	m := &Manager{
		store:       store,
		nav:         nav,
		parser:      jwt.NewParser(jwt.WithPaddingAllowed()),
		now:         time.Now,
		signInPath:  DefaultSignInPath,
		publicPaths: slices.Clone(DefaultPublicPaths),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Login stores the token and, when supplied, the cached user record.
func (m *Manager) Login(token string, user *User) error {
	if token == "" {
		log.Error().Err(ErrMissingToken).Msg("login failed")
		return ErrMissingToken
	}

	if err := m.store.Set(TokenKey, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		if err := m.store.Set(UserKey, string(data)); err != nil {
			return fmt.Errorf("failed to store user: %w", err)
		}
	}

	telemetry.RecordLogin()

	log.Info().
		Bool("hasToken", true).
		Bool("hasUser", user != nil).
		Msg("login successful")

	return nil
}

// Logout removes the token and cached user. It never fails; storage errors
// are logged so it stays safe to call from any error path.
func (m *Manager) Logout() {
	m.teardown("logout")
	log.Info().Msg("logout successful")
}

// Token returns the stored token. The literal strings "undefined" and "null"
// count as absent. A read error clears the token key.
func (m *Manager) Token() (string, bool) {
	token, ok, err := m.store.Get(TokenKey)
	if err != nil {
		log.Error().Err(err).Msg("error reading token from storage")
		m.remove(TokenKey)
		return "", false
	}

	if !ok || isEmptyValue(token) {
		return "", false
	}

	return token, true
}

// CachedUser returns the cached user record. Corrupt data is removed.
func (m *Manager) CachedUser() (*User, bool) {
	raw, ok, err := m.store.Get(UserKey)
	if err != nil {
		log.Error().Err(err).Msg("error reading user from storage")
		m.remove(UserKey)
		return nil, false
	}

	if !ok || isEmptyValue(raw) {
		return nil, false
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Error().Err(fmt.Errorf("%w: %v", ErrStorageCorruption, err)).Msg("error parsing user data from storage")
		m.remove(UserKey)
		return nil, false
	}

	return &user, true
}

// DecodeToken reads the claims of token without verifying its signature.
// Failures are ErrMalformedToken or ErrTokenDecode and are logged as warnings.
func (m *Manager) DecodeToken(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMalformedToken
	}

	claims, err := parsePayload(m.parser, token)
	if err != nil {
		log.Warn().Err(err).Msg("invalid token")
		return nil, err
	}

	return claims, nil
}

// CurrentUser returns the user described by the stored token, falling back
// to the cached record when there is no token or it does not decode.
func (m *Manager) CurrentUser() (*User, bool) {
	if token, ok := m.Token(); ok {
		if claims, err := m.DecodeToken(token); err == nil {
			return claims.User(), true
		}
	}

	return m.CachedUser()
}

// Validate checks the stored session. It returns ErrNoSession when nothing
// is stored. Any other failure (ErrMalformedToken, ErrTokenDecode,
// ErrExpiredToken) clears the token and cached user before returning.
func (m *Manager) Validate() error {
	token, ok := m.Token()
	if !ok {
		return ErrNoSession
	}

	claims, err := parsePayload(m.parser, token)
	if err != nil {
		log.Warn().Err(err).Msg("stored token is invalid, clearing session")
		m.teardown(teardownReason(err))
		return err
	}

	if claims.Expired(m.now()) {
		log.Warn().Time("exp", claims.ExpiresAt.Time).Msg("token has expired, clearing session")
		m.teardown("expired")
		return ErrExpiredToken
	}

	return nil
}

// IsAuthenticated reports whether the stored session is usable. It is not
// read-only: see Validate.
func (m *Manager) IsAuthenticated() bool {
	return m.Validate() == nil
}

func (m *Manager) isPublicPath(path string) bool {
	return slices.Contains(m.publicPaths, path)
}

func (m *Manager) teardown(reason string) {
	m.remove(TokenKey)
	m.remove(UserKey)
	telemetry.RecordTeardown(reason)
}

func (m *Manager) remove(key string) {
	if err := m.store.Remove(key); err != nil {
		log.Error().Err(err).Str("key", key).Msg("error removing session data")
	}
}

func teardownReason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrTokenDecode):
		return "decode"
	default:
		return "invalid"
	}
}

// stayPut is the Navigator used when none is given.
type stayPut struct{}

func (stayPut) Path() string { return "" }

func (stayPut) Redirect(string) {}

func isEmptyValue(v string) bool {
	return v == "" || v == "undefined" || v == "null"
}
