// Package routes gates navigation between views: authenticated views render
// only while the session store holds a complete credential, everything else
// falls back to the login view.
package routes

import (
	"context"
	"log/slog"
	"sync"

	"github.com/unsaidapp/unsaid/pkg/session"
)

// View names a navigable screen. The values mirror the app's route paths.
type View string

const (
	ViewAuth          View = "/auth"
	ViewHome          View = "/home"
	ViewChat          View = "/chat"
	ViewExplore       View = "/explore"
	ViewPost          View = "/post"
	ViewNotifications View = "/notifications"
	ViewSuggestions   View = "/suggestions"
	ViewProfile       View = "/profile/me"
)

// UserProfile returns the view for another user's profile page.
func UserProfile(username string) View {
	return View("/profile/" + username)
}

// IsProtected reports whether a view requires an authenticated session.
// Only the auth screen itself is public.
func IsProtected(v View) bool {
	return v != ViewAuth
}

// Decision is the outcome of guarding a navigation.
type Decision int

const (
	Render Decision = iota
	RedirectLogin
)

func (d Decision) String() string {
	if d == RedirectLogin {
		return "redirect-login"
	}
	return "render"
}

// SessionStore is the slice of the session store the guard depends on.
type SessionStore interface {
	Current() session.Session
	Clear() error
}

// LogoutAPI invalidates server-side session state; client-side logout never
// waits on it.
type LogoutAPI interface {
	Logout(ctx context.Context) error
}

// Guard decides, per navigation, whether a requested view may render. It has
// exactly two states, authenticated and anonymous, derived fresh from the
// session store on every call and never cached.
//
// Navigate, Refresh, Logout and Expire may be called from any goroutine;
// logout in particular runs off the UI goroutine while sidebar clicks
// navigate on it.
type Guard struct {
	sessions SessionStore
	auth     LogoutAPI

	mu  sync.Mutex
	cur View

	// OnNavigate is the single navigation mechanism: it receives the view
	// that should be shown, after the guard has decided.
	OnNavigate func(View)
}

// New creates a guard starting on the auth view.
func New(sessions SessionStore, auth LogoutAPI) *Guard {
	return &Guard{sessions: sessions, auth: auth, cur: ViewAuth}
}

// Decide is the pure routing rule: (requested view, session presence) to
// render-or-redirect. The originally requested view is not remembered across
// a redirect.
func (g *Guard) Decide(v View) Decision {
	if !IsProtected(v) {
		return Render
	}
	if g.sessions.Current().Authenticated() {
		return Render
	}
	return RedirectLogin
}

// Current returns the view most recently navigated to.
func (g *Guard) Current() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur
}

// Navigate applies the guard to the requested view and fires OnNavigate with
// the view that actually gets shown.
func (g *Guard) Navigate(v View) Decision {
	d := g.Decide(v)
	target := v
	if d == RedirectLogin {
		slog.Debug("navigation redirected to login", "requested", string(v))
		target = ViewAuth
	}

	g.mu.Lock()
	g.cur = target
	cb := g.OnNavigate
	g.mu.Unlock()

	if cb != nil {
		cb(target)
	}
	return d
}

// Refresh re-evaluates the current view, redirecting if the session is gone.
func (g *Guard) Refresh() Decision {
	g.mu.Lock()
	cur := g.cur
	g.mu.Unlock()
	return g.Navigate(cur)
}

// Logout tells the server to drop its session state, clears the local
// session regardless of the server's answer, and re-evaluates. The redirect
// to the login view follows from the now-empty store.
func (g *Guard) Logout(ctx context.Context) {
	if g.auth != nil {
		if err := g.auth.Logout(ctx); err != nil {
			slog.Warn("server-side logout failed, clearing local session anyway", "err", err)
		}
	}
	if err := g.sessions.Clear(); err != nil {
		slog.Warn("clear session", "err", err)
	}
	g.Refresh()
}

// Expire drops the session after an authorization failure from any API call
// and redirects to login. Views call this when the backend answers 401.
func (g *Guard) Expire() {
	if err := g.sessions.Clear(); err != nil {
		slog.Warn("clear session", "err", err)
	}
	slog.Info("session expired, returning to login")
	g.Refresh()
}
