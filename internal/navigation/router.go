package navigation

import (
	"slices"

	"github.com/rs/zerolog/log"
)

// Guard decides whether protected routes may be entered.
type Guard interface {
	IsAuthenticated() bool
}

// Decision is the outcome of resolving a requested path.
type Decision struct {
	// Path is where the client ends up.
	Path string

	// From is the protected path that was refused, when the guard redirected.
	From string
}

// Allowed reports whether the requested protected path was entered.
func (d Decision) Allowed() bool {
	return d.From == ""
}

// Router resolves requested paths against the route table.
type Router struct {
	guard    Guard
	location *Location
}

// NewRouter creates a router that moves location and consults guard for
// protected routes.
func NewRouter(guard Guard, location *Location) *Router {
	return &Router{guard: guard, location: location}
}

// Resolve works out where a request for path ends up without moving.
func (r *Router) Resolve(path string) Decision {
	switch {
	case slices.Contains(PublicPaths(), path):
		return Decision{Path: path}
	case path == PathRoot:
		return r.Resolve(PathDashboard)
	case slices.Contains(ProtectedPaths(), path):
		if !r.guard.IsAuthenticated() {
			log.Debug().Str("path", path).Msg("not authenticated, redirecting to sign in")
			return Decision{Path: PathSignIn, From: path}
		}
		return Decision{Path: path}
	default:
		return Decision{Path: PathSignIn}
	}
}

// Navigate resolves path and moves the location there.
func (r *Router) Navigate(path string) Decision {
	d := r.Resolve(path)
	r.location.Redirect(d.Path)
	return d
}
