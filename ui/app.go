// Package ui provides the Fyne-based GUI for the Unsaid client.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/unsaidapp/unsaid/pkg/api"
	"github.com/unsaidapp/unsaid/pkg/authflow"
	"github.com/unsaidapp/unsaid/pkg/config"
	"github.com/unsaidapp/unsaid/pkg/routes"
	"github.com/unsaidapp/unsaid/pkg/session"
	"github.com/unsaidapp/unsaid/pkg/version"
)

const requestTimeout = 15 * time.Second

// App is the main GUI application.
type App struct {
	fyneApp  fyne.App
	window   fyne.Window
	cfg      *config.Settings
	client   *api.Client
	sessions *session.Store
	flow     *authflow.Flow
	guard    *routes.Guard
}

// NewApp wires the session store, auth flow and route guard into a window.
func NewApp(cfg *config.Settings) (*App, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = session.DefaultDir()
	}
	store, err := session.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("ui: open session store: %w", err)
	}

	a := &App{
		fyneApp:  fyneapp.NewWithID("app.unsaid.client"),
		cfg:      cfg,
		client:   api.NewClient(cfg.APIBaseURL),
		sessions: store,
	}
	a.flow = authflow.New(a.client, store)
	a.guard = routes.New(store, a.client)

	a.window = a.fyneApp.NewWindow("Unsaid")
	a.window.Resize(fyne.NewSize(960, 640))
	a.window.SetMaster()

	// The single navigation mechanism: every view change flows through the
	// guard, and the guard's verdict lands here.
	a.guard.OnNavigate = func(v routes.View) {
		fyne.Do(func() { a.showView(v) })
	}
	a.flow.OnAuthenticated = func() {
		fyne.Do(func() { a.guard.Navigate(routes.ViewHome) })
	}

	return a, nil
}

// Run restores any persisted session and starts the GUI (blocks).
func (a *App) Run() {
	if s := a.sessions.Restore(); s.Authenticated() {
		slog.Info("session restored", "user", s.Identity.Username)
	}
	// Renders home when a session was restored, otherwise redirects to login.
	a.guard.Navigate(routes.ViewHome)
	a.window.ShowAndRun()
}

// showView builds and mounts the screen for a view the guard has approved.
func (a *App) showView(v routes.View) {
	if v == routes.ViewAuth {
		a.window.SetContent(a.buildAuthView())
		return
	}

	var body fyne.CanvasObject
	switch v {
	case routes.ViewHome:
		body = a.buildHomeView()
	case routes.ViewExplore:
		body = a.buildExploreView()
	case routes.ViewPost:
		body = a.buildComposerView()
	case routes.ViewNotifications:
		body = a.buildNotificationsView()
	case routes.ViewSuggestions:
		body = a.buildSuggestionsView()
	case routes.ViewChat:
		body = a.buildChatView()
	case routes.ViewProfile:
		body = a.buildProfileView()
	default:
		if username, ok := strings.CutPrefix(string(v), "/profile/"); ok {
			body = a.buildUserProfileView(username)
		} else {
			body = widget.NewLabel("Page not found")
		}
	}

	a.window.SetContent(container.NewBorder(nil, nil, a.buildSidebar(v), nil, body))
}

func (a *App) buildSidebar(active routes.View) fyne.CanvasObject {
	navBtn := func(label string, icon fyne.Resource, target routes.View) *widget.Button {
		btn := widget.NewButtonWithIcon(label, icon, func() {
			a.guard.Navigate(target)
		})
		btn.Alignment = widget.ButtonAlignLeading
		if target == active {
			btn.Importance = widget.HighImportance
		}
		return btn
	}

	logo := widget.NewLabelWithStyle("Unsaid.", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	logoutBtn := widget.NewButtonWithIcon("Logout", theme.LogoutIcon(), func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			a.guard.Logout(ctx)
		}()
	})

	versionLabel := widget.NewLabel(version.String())
	versionLabel.TextStyle = fyne.TextStyle{Italic: true}
	versionLabel.Importance = widget.LowImportance

	return container.NewVBox(
		logo,
		widget.NewSeparator(),
		navBtn("Home", theme.HomeIcon(), routes.ViewHome),
		navBtn("Explore", theme.SearchIcon(), routes.ViewExplore),
		navBtn("Write", theme.DocumentCreateIcon(), routes.ViewPost),
		navBtn("Notifications", theme.InfoIcon(), routes.ViewNotifications),
		navBtn("Suggestions", theme.AccountIcon(), routes.ViewSuggestions),
		navBtn("Chat", theme.MailComposeIcon(), routes.ViewChat),
		navBtn("Profile", theme.AccountIcon(), routes.ViewProfile),
		layout.NewSpacer(),
		widget.NewSeparator(),
		logoutBtn,
		versionLabel,
	)
}

// token returns the current bearer token, or "" when logged out.
func (a *App) token() string {
	return a.sessions.Current().Token
}

// handleAPIError deals with a failed view fetch: a 401 destroys the session
// and returns to login, anything else surfaces a dialog. Must be called from
// the UI goroutine.
func (a *App) handleAPIError(err error) {
	if api.IsAuthFailure(err) {
		a.guard.Expire()
		return
	}
	slog.Warn("request failed", "err", err)
	dialog.ShowError(err, a.window)
}
