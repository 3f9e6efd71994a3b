package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Ash-the-k/uhi-hackathon/internal/events"
	"github.com/Ash-the-k/uhi-hackathon/internal/repository"
	apperrors "github.com/Ash-the-k/uhi-hackathon/pkg/util"
)

const identityKey = "auth_identity"

// Middleware validates bearer tokens and attaches the enriched request
// identity. Token checks are purely cryptographic; the store is consulted
// only afterwards, to fill claim fields the token did not carry.
type Middleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, dispatcher: dispatcher, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get("Authorization"))
	if !ok {
		return m.reject(c, apperrors.CodeMissingToken, "missing or malformed authorization header")
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		return m.reject(c, apperrors.CodeInvalidToken, "invalid or expired token")
	}

	identity := IdentityFromClaims(claims)
	m.enrich(c, identity)

	c.Locals(identityKey, identity)
	return c.Next()
}

// bearerToken extracts the token from a two-part header. The scheme match is
// case-insensitive; anything else counts as a missing token, not an invalid
// one.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// enrich fills missing identity fields from the authoritative store. A
// missing record or a failing lookup degrades to the token's own claims:
// a transient store outage must not reject every authenticated request.
func (m *Middleware) enrich(c *fiber.Ctx, identity *Identity) {
	if identity.ID == "" {
		return
	}
	user, err := m.users.GetByID(c.Context(), identity.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			m.logger.Debug("identity record not found", zap.String("user_id", identity.ID))
		} else {
			m.logger.Warn("identity lookup failed, proceeding with token claims",
				zap.String("user_id", identity.ID), zap.Error(err))
		}
		return
	}
	identity.Enrich(user)
}

func (m *Middleware) reject(c *fiber.Ctx, code, message string) error {
	if m.dispatcher != nil {
		_ = m.dispatcher.Publish(c.Context(), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTokenRejected,
			Timestamp: time.Now(),
			Payload:   events.TokenRejectedPayload{Code: code, Path: c.Path()},
		})
	}
	if code == apperrors.CodeMissingToken {
		return apperrors.NewMissingToken(message)
	}
	return apperrors.NewInvalidToken(message)
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
