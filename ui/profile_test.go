package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unsaidapp/unsaid/pkg/api"
)

// The follow edge lives server-side, so the profile loader must derive the
// button state from a fresh /me response, not from any cached snapshot.
func TestLoadUserProfileDerivesFollowStateFromFreshMe(t *testing.T) {
	following := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/users/username/dev":
			_, _ = w.Write([]byte(`{"_id":"u2","username":"dev","name":"Dev Mehta"}`))
		case "/api/auth/me":
			if following {
				_, _ = w.Write([]byte(`{"_id":"u1","username":"ishita","following":["u2"]}`))
			} else {
				_, _ = w.Write([]byte(`{"_id":"u1","username":"ishita","following":[]}`))
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)

	data, err := loadUserProfile(context.Background(), client, "tok", "dev")
	require.NoError(t, err)
	assert.Equal(t, "u2", data.user.ID)
	assert.False(t, data.following)

	// The follow lands on the server; rebuilding the screen must see it
	// without any local state having changed.
	following = true
	data, err = loadUserProfile(context.Background(), client, "tok", "dev")
	require.NoError(t, err)
	assert.True(t, data.following)
}

func TestLoadUserProfileUnknownUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"User not found"}`))
	}))
	defer srv.Close()

	_, err := loadUserProfile(context.Background(), api.NewClient(srv.URL), "tok", "ghost")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "User not found", apiErr.Message)
}
