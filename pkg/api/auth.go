package api

import (
	"context"
	"net/http"

	"github.com/unsaidapp/unsaid/pkg/session"
)

// Credentials is the outcome of a successful login or registration: the
// bearer token and the identity snapshot it belongs to.
type Credentials struct {
	Token    string
	Identity *session.Identity
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	MobileNo string `json:"mobileNo"`
}

// authPayload is the wire shape of {data: {token, ...identity fields}}: the
// identity fields sit flat next to the token, so the snapshot is embedded.
type authPayload struct {
	Token string `json:"token"`
	session.Identity
}

type authEnvelope struct {
	Data authPayload `json:"data"`
}

func (e *authEnvelope) credentials() *Credentials {
	id := e.Data.Identity
	return &Credentials{Token: e.Data.Token, Identity: &id}
}

// Login exchanges a username and password for a session credential.
func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	var envelope authEnvelope
	req := loginRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", req, &envelope); err != nil {
		return nil, err
	}
	return envelope.credentials(), nil
}

// Register creates an account and returns its first session credential.
func (c *Client) Register(ctx context.Context, name, username, password, mobileNo string) (*Credentials, error) {
	var envelope authEnvelope
	req := registerRequest{Name: name, Username: username, Password: password, MobileNo: mobileNo}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", req, &envelope); err != nil {
		return nil, err
	}
	return envelope.credentials(), nil
}

// Me fetches the current identity snapshot for the given token.
func (c *Client) Me(ctx context.Context, token string) (*session.Identity, error) {
	var id session.Identity
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", token, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// Logout invalidates the server-side session state. Client-side logout
// proceeds regardless of this call's outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/auth/logout", "", nil, nil)
}
