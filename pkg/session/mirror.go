package session

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// Mirror maintains the current session for one client instance and keeps it
// consistent with other open instances through the broadcast channel.
//
// The in-memory copy serves reads like Current; the token attached to
// outgoing requests is always re-read from durable storage so a logout in
// another instance is respected on this instance's very next request.
type Mirror struct {
	store     Store
	broadcast Broadcaster
	redirect  func()

	mu      sync.Mutex
	current State
}

// NewMirror loads any persisted session and subscribes to cross-instance
// signals. redirect is invoked whenever the session ends and the instance
// should navigate to the unauthenticated entry point; nil disables it.
func NewMirror(store Store, broadcast Broadcaster, redirect func()) *Mirror {
	m := &Mirror{
		store:     store,
		broadcast: broadcast,
		redirect:  redirect,
		current:   LoadState(store),
	}

	if broadcast != nil {
		broadcast.Subscribe(LogoutKey, func(string) {
			m.clearMemory()
			m.goToLogin()
		})
		broadcast.Subscribe(StateKey, func(value string) {
			var state State
			if err := json.Unmarshal([]byte(value), &state); err != nil {
				state = State{}
			}
			m.mu.Lock()
			m.current = state
			m.mu.Unlock()
		})
	}
	return m
}

// Login replaces the session atomically from the caller's perspective.
func (m *Mirror) Login(token, role, userID string) error {
	state := State{Token: token, Role: role, UserID: userID}
	m.mu.Lock()
	m.current = state
	m.mu.Unlock()
	return SaveState(m.store, state)
}

// Logout clears memory and durable state, broadcasts the logout marker, and
// redirects. Safe to call with no session held.
func (m *Mirror) Logout() {
	m.clearMemory()
	_ = m.store.Delete(StateKey)
	if m.broadcast != nil {
		_ = m.broadcast.Publish(LogoutKey, strconv.FormatInt(time.Now().UnixMilli(), 10))
	}
	m.goToLogin()
}

// HandleUnauthorized runs the logout sequence in response to a server 401.
// Idempotent with an already-cleared session, which covers in-flight requests
// completing after an explicit logout.
func (m *Mirror) HandleUnauthorized() {
	m.Logout()
}

// Current returns the in-memory session copy.
func (m *Mirror) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Token reads the token from durable storage, not the in-memory copy.
func (m *Mirror) Token() string {
	return LoadState(m.store).Token
}

func (m *Mirror) clearMemory() {
	m.mu.Lock()
	m.current = State{}
	m.mu.Unlock()
}

func (m *Mirror) goToLogin() {
	if m.redirect != nil {
		m.redirect()
	}
}
