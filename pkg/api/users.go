package api

import (
	"context"
	"net/http"

	"github.com/unsaidapp/unsaid/pkg/session"
)

type usersEnvelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    []session.Identity `json:"data"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

// ListUsers fetches every registered user (the suggestions source).
func (c *Client) ListUsers(ctx context.Context) ([]session.Identity, error) {
	var envelope usersEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/api/users", "", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, token, id string) (*session.Identity, error) {
	var user session.Identity
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/"+id, token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername fetches a user by username.
func (c *Client) GetUserByUsername(ctx context.Context, token, username string) (*session.Identity, error) {
	var user session.Identity
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/username/"+username, token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UsersByIDs resolves a list of user ids to identity snapshots, used by the
// follower/following modals.
func (c *Client) UsersByIDs(ctx context.Context, token string, ids []string) ([]session.Identity, error) {
	var envelope usersEnvelope
	req := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/get-users-by-ids", token, req, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Follow follows the user with the given id and returns the server's
// confirmation message.
func (c *Client) Follow(ctx context.Context, token, id string) (string, error) {
	var envelope messageEnvelope
	if err := c.doJSON(ctx, http.MethodPut, "/api/users/"+id+"/follow", token, struct{}{}, &envelope); err != nil {
		return "", err
	}
	return envelope.Message, nil
}

// Unfollow unfollows the user with the given id.
func (c *Client) Unfollow(ctx context.Context, token, id string) (string, error) {
	var envelope messageEnvelope
	if err := c.doJSON(ctx, http.MethodPut, "/api/users/"+id+"/unfollow", token, struct{}{}, &envelope); err != nil {
		return "", err
	}
	return envelope.Message, nil
}

// ProfileUpdate is a partial profile edit; empty fields are left unchanged.
type ProfileUpdate struct {
	Name         string `json:"name,omitempty"`
	Bio          string `json:"bio,omitempty"`
	Location     string `json:"location,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// UpdateProfile edits the user's own profile.
func (c *Client) UpdateProfile(ctx context.Context, token, id string, update ProfileUpdate) error {
	return c.doJSON(ctx, http.MethodPut, "/api/users/"+id+"/profile", token, update, nil)
}

// DeleteAccount permanently deletes the user's account.
func (c *Client) DeleteAccount(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/users/"+id, token, nil, nil)
}
