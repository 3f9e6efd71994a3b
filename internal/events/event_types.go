package events

import (
	"time"

	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventUserRegistered EventType = "user_registered"
	EventTokenRejected  EventType = "token_rejected"
)

// Event represents an authentication event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Email     string      `json:"email,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// LoginFailedPayload carries the unified failure reason. The split between
// unknown email and wrong secret exists only here, for operators; clients
// always see the same invalid-credentials response.
type LoginFailedPayload struct {
	Reason string `json:"reason"`
}

// TokenRejectedPayload describes why a bearer token was refused.
type TokenRejectedPayload struct {
	Code string `json:"code"`
	Path string `json:"path"`
}
