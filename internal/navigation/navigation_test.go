package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticGuard bool

func (g staticGuard) IsAuthenticated() bool { return bool(g) }

func TestLocation(t *testing.T) {
	loc := NewLocation(PathDashboard)
	assert.Equal(t, PathDashboard, loc.Path())
	assert.False(t, loc.Redirected(PathSignIn))

	loc.Redirect(PathSignIn)
	assert.Equal(t, PathSignIn, loc.Path())
	assert.True(t, loc.Redirected(PathSignIn))

	// Redirecting to the current path is a no-op
	loc.Redirect(PathSignIn)
	assert.Equal(t, []string{PathDashboard, PathSignIn}, loc.History())
}

func TestLocation_StartingPathIsNotARedirect(t *testing.T) {
	loc := NewLocation(PathSignIn)
	assert.False(t, loc.Redirected(PathSignIn))
}

func TestRouter_Resolve(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		path          string
		expected      Decision
	}{
		{name: "public page without session", path: PathSignIn, expected: Decision{Path: PathSignIn}},
		{name: "register without session", path: PathRegister, expected: Decision{Path: PathRegister}},
		{name: "forgot password with session", authenticated: true, path: PathForgotPassword, expected: Decision{Path: PathForgotPassword}},
		{name: "protected page with session", authenticated: true, path: PathDashboard, expected: Decision{Path: PathDashboard}},
		{name: "protected page without session", path: PathDashboard, expected: Decision{Path: PathSignIn, From: PathDashboard}},
		{name: "profile without session", path: PathUpdateProfile, expected: Decision{Path: PathSignIn, From: PathUpdateProfile}},
		{name: "root goes to dashboard", authenticated: true, path: PathRoot, expected: Decision{Path: PathDashboard}},
		{name: "root without session", path: PathRoot, expected: Decision{Path: PathSignIn, From: PathDashboard}},
		{name: "unknown page", authenticated: true, path: "/nope", expected: Decision{Path: PathSignIn}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(staticGuard(tt.authenticated), NewLocation(PathRoot))
			d := router.Resolve(tt.path)
			assert.Equal(t, tt.expected, d)
			assert.Equal(t, tt.expected.From == "", d.Allowed())
		})
	}
}

func TestRouter_Navigate(t *testing.T) {
	loc := NewLocation(PathRoot)
	router := NewRouter(staticGuard(false), loc)

	d := router.Navigate(PathInterviewReports)
	assert.False(t, d.Allowed())
	assert.Equal(t, PathSignIn, loc.Path())
}
