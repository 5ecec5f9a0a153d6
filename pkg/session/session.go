// Package session owns the client-side authenticated session: the bearer
// token plus a cached identity snapshot, persisted across restarts.
package session

import (
	"errors"
	"time"
)

// ErrPartialSession is returned when a session carries a token without an
// identity or an identity without a token.
var ErrPartialSession = errors.New("session: token and identity must be set together")

// Identity is a snapshot of the signed-in user as returned by the API.
// It is cached for display only; the server copy is authoritative.
type Identity struct {
	ID           string    `json:"_id" yaml:"id"`
	Username     string    `json:"username" yaml:"username"`
	Name         string    `json:"name" yaml:"name"`
	ProfileImage string    `json:"profileImage,omitempty" yaml:"profile_image,omitempty"`
	Bio          string    `json:"bio,omitempty" yaml:"bio,omitempty"`
	Location     string    `json:"location,omitempty" yaml:"location,omitempty"`
	Followers    []string  `json:"followers,omitempty" yaml:"followers,omitempty"`
	Following    []string  `json:"following,omitempty" yaml:"following,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

// Clone returns a deep copy of the identity.
func (id *Identity) Clone() *Identity {
	if id == nil {
		return nil
	}
	out := *id
	out.Followers = append([]string(nil), id.Followers...)
	out.Following = append([]string(nil), id.Following...)
	return &out
}

// Session is the client-held proof of authentication. The zero value is the
// logged-out session.
type Session struct {
	Token    string    `yaml:"token"`
	Identity *Identity `yaml:"identity"`
}

// Empty reports whether the session is logged out.
func (s Session) Empty() bool {
	return s.Token == "" && s.Identity == nil
}

// Authenticated reports whether the session holds a complete credential.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Identity != nil
}

// Validate rejects partial sessions (token without identity or vice versa).
func (s Session) Validate() error {
	if (s.Token == "") != (s.Identity == nil) {
		return ErrPartialSession
	}
	return nil
}

// clone returns a deep copy so callers can never mutate the stored session.
func (s Session) clone() Session {
	return Session{Token: s.Token, Identity: s.Identity.Clone()}
}
