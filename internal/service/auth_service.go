package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ash-the-k/uhi-hackathon/internal/auth"
	"github.com/Ash-the-k/uhi-hackathon/internal/config"
	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
	"github.com/Ash-the-k/uhi-hackathon/internal/events"
	"github.com/Ash-the-k/uhi-hackathon/internal/repository"
	apperrors "github.com/Ash-the-k/uhi-hackathon/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	verifier   auth.CredentialVerifier
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes),
		verifier:   auth.CredentialVerifier{AllowPlaintext: cfg.AllowPlaintextSecrets},
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// Login authenticates by email and secret and issues a signed token. Unknown
// email and wrong secret produce the same invalid-credentials error; only the
// audit event records which one it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.publishLoginFailed(ctx, email, "unknown email")
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}

	if !s.verifier.Verify(user, password) {
		s.publishLoginFailed(ctx, email, "wrong secret")
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventLoginSucceeded,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Timestamp: time.Now(),
	})
	return user, token, exp, nil
}

// Register creates a new identity record with a hashed credential.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.NormalizeRole(string(role)),
	}
	if user.Role == "" {
		user.Role = domain.RoleGeneric
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Timestamp: time.Now(),
	})
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishLoginFailed(ctx context.Context, email, reason string) {
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventLoginFailed,
		Email:     email,
		Timestamp: time.Now(),
		Payload:   events.LoginFailedPayload{Reason: reason},
	})
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
