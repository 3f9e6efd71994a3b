package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ash-the-k/uhi-hackathon/pkg/session"
)

func newTestMirror(t *testing.T) (*session.Mirror, *bool) {
	t.Helper()
	store, err := session.NewFileStore(t.TempDir())
	require.NoError(t, err)
	redirected := false
	return session.NewMirror(store, nil, func() { redirected = true }), &redirected
}

func TestLoginStoresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token": "tok-1", "role": "doctor", "userId": "user-1",
		})
	}))
	defer server.Close()

	mirror, _ := newTestMirror(t)
	c := New(server.URL, mirror)

	state, err := c.Login(context.Background(), "doc@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "doctor", state.Role)
	assert.Equal(t, "tok-1", mirror.Token())
}

func TestRequestsCarryCurrentToken(t *testing.T) {
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	mirror, _ := newTestMirror(t)
	require.NoError(t, mirror.Login("tok-2", "staff", "user-2"))
	c := New(server.URL, mirror)

	resp, err := c.Get(context.Background(), "/dashboard/staff")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer tok-2", seen)

	// after logout the durable token is gone, so no header is attached
	mirror.Logout()
	resp, err = c.Get(context.Background(), "/dashboard/staff")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, seen)
}

func TestUnauthorizedResponseTearsDownSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"INVALID_TOKEN"}}`))
	}))
	defer server.Close()

	mirror, redirected := newTestMirror(t)
	require.NoError(t, mirror.Login("tok-3", "doctor", "user-3"))
	c := New(server.URL, mirror)

	resp, err := c.Get(context.Background(), "/dashboard/doctor")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, mirror.Token())
	assert.True(t, mirror.Current().Empty())
	assert.True(t, *redirected)
}
