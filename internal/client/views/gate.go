package views

import (
	"sync"

	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/dmitrijs2005/nexuschat/internal/client/store"
)

// Route is the single view the Gate selects.
type Route int

const (
	RouteLoading Route = iota
	RouteAuth
	RouteVerify
	RouteWorkspace
)

func (r Route) String() string {
	switch r {
	case RouteLoading:
		return "loading"
	case RouteAuth:
		return "auth"
	case RouteVerify:
		return "verify"
	case RouteWorkspace:
		return "workspace"
	default:
		return "unknown"
	}
}

// Resolve applies the routing policy in priority order: loading, then
// unauthenticated, then unverified, then the workspace. User data is ignored
// while unauthenticated; an absent user while authenticated counts as
// unverified.
func Resolve(s models.AuthState) Route {
	switch {
	case s.Status.IsLoading:
		return RouteLoading
	case !s.Status.IsAuthenticated:
		return RouteAuth
	case s.User == nil || !s.User.EmailVerified:
		return RouteVerify
	default:
		return RouteWorkspace
	}
}

// Gate routes between the top-level views from the shared auth signal.
type Gate struct {
	auth *store.Signal[models.AuthState]
}

func NewGate(auth *store.Signal[models.AuthState]) *Gate {
	return &Gate{auth: auth}
}

// Route resolves the current route from the live signal.
func (g *Gate) Route() Route {
	return Resolve(g.auth.Get())
}

// Watch calls fn with the new route whenever an auth change alters it.
func (g *Gate) Watch(fn func(Route)) (unsubscribe func()) {
	var mu sync.Mutex
	last := g.Route()

	return g.auth.Subscribe(func(s models.AuthState) {
		r := Resolve(s)

		mu.Lock()
		changed := r != last
		last = r
		mu.Unlock()

		if changed {
			fn(r)
		}
	})
}
