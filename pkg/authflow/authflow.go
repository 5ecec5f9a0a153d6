// Package authflow implements the login/registration form logic: client-side
// validation, submission to the auth API, and populating the session store on
// success.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/unsaidapp/unsaid/pkg/api"
	"github.com/unsaidapp/unsaid/pkg/session"
)

// Mode selects between the two faces of the auth form.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// Validation messages shown to the user. The mobile and password texts are
// load-bearing: tests and the backend rely on the exact wording.
const (
	MsgUsernameSpaces   = "Username cannot contain spaces."
	MsgPasswordMismatch = "Passwords do not match."
	MsgMobileDigits     = "Mobile number must be exactly 10 digits."
	MsgGenericFailure   = "Something went wrong."
)

var (
	// ErrSubmissionInFlight is returned when Submit is called while a
	// previous submission has not resolved yet.
	ErrSubmissionInFlight = errors.New("authflow: submission already in flight")

	// ErrRejected is returned when a submission fails validation or is
	// rejected by the server; ErrorMessage holds the display text.
	ErrRejected = errors.New("authflow: submission rejected")

	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

// Form holds the transient credential fields. Never persisted.
type Form struct {
	Name            string
	Username        string
	Password        string
	ConfirmPassword string
	MobileNo        string
}

// validate applies the client-side rules in order; the first failure wins.
// Returns the display message, or "" when the form may be submitted.
func (f Form) validate(mode Mode) string {
	if strings.ContainsFunc(f.Username, unicode.IsSpace) {
		return MsgUsernameSpaces
	}
	if mode == ModeRegister && f.Password != f.ConfirmPassword {
		return MsgPasswordMismatch
	}
	if mode == ModeRegister && !mobilePattern.MatchString(f.MobileNo) {
		return MsgMobileDigits
	}
	return ""
}

// AuthAPI is the slice of the backend the flow submits to.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*api.Credentials, error)
	Register(ctx context.Context, name, username, password, mobileNo string) (*api.Credentials, error)
}

// SessionWriter is the slice of the session store the flow populates.
type SessionWriter interface {
	Set(s session.Session) error
}

// Flow drives one auth form instance.
//
// Submit may be called from any goroutine; callbacks fire on the caller's
// goroutine, so UI consumers wrap them in fyne.Do.
type Flow struct {
	mu     sync.Mutex
	auth   AuthAPI
	store  SessionWriter
	mode   Mode
	form   Form
	errMsg string
	busy   bool
	gen    uint64

	// OnAuthenticated signals navigation to the authenticated home view,
	// after the session store has been populated.
	OnAuthenticated func()
	// OnError receives the display-ready failure message.
	OnError func(msg string)
}

// New creates a flow in login mode.
func New(auth AuthAPI, store SessionWriter) *Flow {
	return &Flow{auth: auth, store: store, mode: ModeLogin}
}

// Mode returns the current form mode.
func (f *Flow) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Form returns a copy of the current form fields.
func (f *Flow) Form() Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// SetForm replaces the form fields (typically mirrored from UI entries).
func (f *Flow) SetForm(form Form) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.form = form
}

// ErrorMessage returns the current display error, or "".
func (f *Flow) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Busy reports whether a submission is in flight.
func (f *Flow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// ToggleMode switches between login and registration, clearing all form
// fields and any error. An in-flight submission is invalidated: its late
// response will be discarded.
func (f *Flow) ToggleMode() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeLogin {
		f.mode = ModeRegister
	} else {
		f.mode = ModeLogin
	}
	f.form = Form{}
	f.errMsg = ""
	f.gen++
}

// Invalidate discards any in-flight submission without changing mode or
// fields. Called when the auth view is dismissed.
func (f *Flow) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
}

// Submit validates the form and, if it passes, sends the request. On success
// the session store is populated and OnAuthenticated fires. On any failure a
// single display message replaces the previous one and the form fields are
// retained so the user can correct and resubmit.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	f.busy = true
	f.errMsg = ""
	gen := f.gen
	mode := f.mode
	form := f.form
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	// Local validation happens before any network call.
	if msg := form.validate(mode); msg != "" {
		f.fail(gen, msg)
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	}

	var (
		creds *api.Credentials
		err   error
	)
	if mode == ModeLogin {
		creds, err = f.auth.Login(ctx, form.Username, form.Password)
	} else {
		creds, err = f.auth.Register(ctx, form.Name, form.Username, form.Password, form.MobileNo)
	}
	if err != nil {
		msg := displayMessage(err)
		slog.Debug("auth submission rejected", "mode", mode, "err", err)
		f.fail(gen, msg)
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	}

	// The staleness check and the store write happen under one lock, so an
	// invalidation can land before or after the commit but never between.
	f.mu.Lock()
	if gen != f.gen {
		// The form was toggled or dismissed while this request was in
		// flight; the response must not touch the session store.
		f.mu.Unlock()
		slog.Debug("discarding stale auth response")
		return nil
	}
	s := session.Session{Token: creds.Token, Identity: creds.Identity}
	if err := f.store.Set(s); err != nil {
		f.errMsg = MsgGenericFailure
		cb := f.OnError
		f.mu.Unlock()
		if cb != nil {
			cb(MsgGenericFailure)
		}
		return fmt.Errorf("authflow: persist session: %w", err)
	}
	f.mu.Unlock()

	slog.Info("authenticated", "user", creds.Identity.Username)
	if f.OnAuthenticated != nil {
		f.OnAuthenticated()
	}
	return nil
}

// fail records msg unless the submission has been invalidated.
func (f *Flow) fail(gen uint64, msg string) {
	f.mu.Lock()
	stale := gen != f.gen
	if !stale {
		f.errMsg = msg
	}
	cb := f.OnError
	f.mu.Unlock()

	if !stale && cb != nil {
		cb(msg)
	}
}

// displayMessage converts a submission error into a single human-readable
// message: the server's own words for API rejections, a generic line for
// transport failures.
func displayMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgGenericFailure
}
