// Package client is the API client used by frontend processes. It annotates
// every request with the current bearer token and translates unauthorized
// responses into a full session teardown.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Ash-the-k/uhi-hackathon/pkg/session"
)

// DefaultBaseURL resolves the API address from the environment.
func DefaultBaseURL() string {
	if base := os.Getenv("API_BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:4000/api"
}

// Client wraps an HTTP client with session handling.
type Client struct {
	base   string
	http   *http.Client
	mirror *session.Mirror
}

// New builds a client against base; an empty base falls back to the env
// default.
func New(base string, mirror *session.Mirror) *Client {
	if base == "" {
		base = DefaultBaseURL()
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{Timeout: 30 * time.Second},
		mirror: mirror,
	}
}

// Do sends the request with the current token attached. The token is read
// from durable storage at call time, so a logout in another instance is
// picked up immediately. A 401 response tears the session down before being
// returned; it is never retried.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if token := c.mirror.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.mirror.HandleUnauthorized()
	}
	return resp, nil
}

// Get issues a GET against the API path.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// PostJSON issues a POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

// Login authenticates and stores the returned session in the mirror.
func (c *Client) Login(ctx context.Context, email, password string) (session.State, error) {
	resp, err := c.PostJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return session.State{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return session.State{}, fmt.Errorf("login failed: status %d", resp.StatusCode)
	}

	var state session.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return session.State{}, err
	}
	if err := c.mirror.Login(state.Token, state.Role, state.UserID); err != nil {
		return session.State{}, err
	}
	return state, nil
}

// Logout ends the session locally and broadcasts to other instances.
func (c *Client) Logout() {
	c.mirror.Logout()
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}
