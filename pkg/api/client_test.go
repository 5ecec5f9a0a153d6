package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unsaidapp/unsaid/pkg/api"
)

func TestLoginDecodesCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ishita", body["username"])
		assert.Equal(t, "hunter2", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"token":"tok-xyz",
			"_id":"64f0c2",
			"username":"ishita",
			"name":"Ishita Rao",
			"followers":["a1"],
			"following":[]
		}}`))
	}))
	defer srv.Close()

	creds, err := api.NewClient(srv.URL).Login(context.Background(), "ishita", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", creds.Token)
	require.NotNil(t, creds.Identity)
	assert.Equal(t, "64f0c2", creds.Identity.ID)
	assert.Equal(t, "ishita", creds.Identity.Username)
	assert.Equal(t, []string{"a1"}, creds.Identity.Followers)
}

func TestLoginRejectedCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL).Login(context.Background(), "ishita", "wrong")
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.True(t, api.IsAuthFailure(err))
}

func TestErrorWithoutMessageFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL).ListPosts(context.Background(), "tok")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
	assert.False(t, api.IsAuthFailure(err))
}

func TestMeSendsBearerAndRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-xyz", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"64f0c2","username":"ishita","name":"Ishita Rao"}`))
	}))
	defer srv.Close()

	id, err := api.NewClient(srv.URL).Me(context.Background(), "tok-xyz")
	require.NoError(t, err)
	assert.Equal(t, "ishita", id.Username)
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	_, err := api.NewClient(srv.URL).ListPosts(context.Background(), "tok")
	require.Error(t, err)

	var apiErr *api.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestListUsersUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"_id":"u1","username":"ishita","name":"Ishita Rao"},
			{"_id":"u2","username":"dev","name":"Dev Mehta"}
		]}`))
	}))
	defer srv.Close()

	users, err := api.NewClient(srv.URL).ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "dev", users[1].Username)
}

func TestUsersByIDsPostsIDList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/users/get-users-by-ids", r.URL.Path)

		var body struct {
			IDs []string `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"u1", "u2"}, body.IDs)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"_id":"u1","username":"ishita","name":"Ishita Rao"},
			{"_id":"u2","username":"dev","name":"Dev Mehta"}
		]}`))
	}))
	defer srv.Close()

	users, err := api.NewClient(srv.URL).UsersByIDs(context.Background(), "tok", []string{"u1", "u2"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ishita", users[0].Username)
}

func TestFollowReturnsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/users/u2/follow", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Now following Dev Mehta"}`))
	}))
	defer srv.Close()

	msg, err := api.NewClient(srv.URL).Follow(context.Background(), "tok", "u2")
	require.NoError(t, err)
	assert.Equal(t, "Now following Dev Mehta", msg)
}
