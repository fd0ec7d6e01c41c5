// Package navigation tracks the page the client is acting as and resolves
// requested pages against the route table, applying the sign-in guard.
package navigation

import (
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

// Route paths.
const (
	PathRoot             = "/"
	PathSignIn           = "/signin"
	PathRegister         = "/register"
	PathForgotPassword   = "/forgot-password"
	PathDashboard        = "/dashboard"
	PathUpdateProfile    = "/update-profile"
	PathAddInterview     = "/add-interview"
	PathInterviewReports = "/interview-reports"
	PathResumeAnalysis   = "/resume-analysis"
)

// PublicPaths are reachable without a session.
func PublicPaths() []string {
	return []string{PathSignIn, PathRegister, PathForgotPassword}
}

// ProtectedPaths require a valid session.
func ProtectedPaths() []string {
	return []string{PathDashboard, PathUpdateProfile, PathAddInterview, PathInterviewReports, PathResumeAnalysis}
}

// Location holds the current path. It is safe for concurrent use.
type Location struct {
	mu      sync.RWMutex
	path    string
	history []string
}

// NewLocation starts at path.
func NewLocation(path string) *Location {
	return &Location{path: path, history: []string{path}}
}

// Path returns the current path.
func (l *Location) Path() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.path
}

// Redirect replaces the current path.
func (l *Location) Redirect(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if path == l.path {
		return
	}

	log.Debug().Str("from", l.path).Str("to", path).Msg("redirect")

	l.path = path
	l.history = append(l.history, path)
}

// History returns every path visited, oldest first.
func (l *Location) History() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.history)
}

// Redirected reports whether the location has ever been sent to path after
// the starting page.
func (l *Location) Redirected(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Contains(l.history[1:], path)
}
