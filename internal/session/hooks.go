package session

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/asknalyze/internal/telemetry"
)

// InstallHTTPHooks wraps the transport of c so every request carries the
// stored token and a 401 outside the public paths ends the session. Install
// once per client; installing twice stacks the hooks.
func (m *Manager) InstallHTTPHooks(c *http.Client) {
	c.Transport = m.Transport(c.Transport)
}

// Transport returns a RoundTripper applying the session hooks around base.
// A nil base uses http.DefaultTransport.
func (m *Manager) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &hookTransport{manager: m, base: base}
}

type hookTransport struct {
	manager *Manager
	base    http.RoundTripper
}

func (t *hookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token, ok := t.manager.Token(); ok {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
		telemetry.RecordAuthenticatedRequest()
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.manager.handleUnauthorized(req)
	}

	return resp, nil
}

func (m *Manager) handleUnauthorized(req *http.Request) {
	current := m.nav.Path()
	if m.isPublicPath(current) {
		log.Debug().
			Str("location", current).
			Str("url", req.URL.Redacted()).
			Msg("401 on public page, leaving session alone")
		return
	}

	log.Warn().
		Str("location", current).
		Str("url", req.URL.Redacted()).
		Msg("401 from server, ending session")

	m.Logout()
	m.nav.Redirect(m.signInPath)
	telemetry.RecordUnauthorizedRedirect()
}
