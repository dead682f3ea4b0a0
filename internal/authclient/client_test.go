package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		assert.Equal(t, 1200, req.ExpiresInMins)
		w.Write([]byte(`{"id":1,"username":"emilys","accessToken":"at","refreshToken":"rt"}`))
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"at2","refreshToken":"rt2"}`))
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Token Expired!"}`))
			return
		}
		w.Write([]byte(`{"id":1,"username":"emilys"}`))
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users":[{"id":1,"username":"emilys"},{"id":2,"username":"michaelw"}],"total":2}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	c := New(fakeProvider(t).URL + "/")

	s, err := c.Login(context.Background(), LoginRequest{Username: "emilys", Password: "secret", ExpiresInMins: 1200})
	require.NoError(t, err)
	assert.Equal(t, "at", s.Token)
	assert.Equal(t, "rt", s.RefreshToken)
	assert.JSONEq(t, `{"id":1,"username":"emilys","accessToken":"at","refreshToken":"rt"}`, string(s.Raw))

	_, err = c.Login(context.Background(), LoginRequest{Username: "emilys", Password: "nope", ExpiresInMins: 1200})
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusBadRequest, upstream.Status)
	assert.Equal(t, "Invalid credentials", upstream.Message)
}

func TestRefresh(t *testing.T) {
	c := New(fakeProvider(t).URL)

	s, err := c.Refresh(context.Background(), RefreshRequest{RefreshToken: "rt", ExpiresInMins: 60})
	require.NoError(t, err)
	assert.Equal(t, "at2", s.Token)
	assert.Equal(t, "rt2", s.RefreshToken)
}

func TestMe(t *testing.T) {
	c := New(fakeProvider(t).URL)

	me, err := c.Me(context.Background(), "at")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"username":"emilys"}`, string(me))

	_, err = c.Me(context.Background(), "stale")
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
}

func TestUsersExcludesCaller(t *testing.T) {
	c := New(fakeProvider(t).URL)

	users, err := c.Users(context.Background(), "emilys")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.JSONEq(t, `{"id":2,"username":"michaelw"}`, string(users[0]))

	all, err := c.Users(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
