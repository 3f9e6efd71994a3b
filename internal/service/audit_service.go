package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Ash-the-k/uhi-hackathon/internal/events"
)

// AuditService writes an audit trail for authentication events. Handlers are
// advisory: they log and return nil so a slow or broken sink never fails the
// request that emitted the event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to auth events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventTokenRejected, a.handleTokenRejected)
}

func (a *AuditService) handleLoginSucceeded(_ context.Context, event events.Event) error {
	a.logger.Info("LoginSucceeded",
		zap.String("user_id", event.UserID),
		zap.String("role", string(event.Role)))
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	a.logger.Warn("LoginFailed",
		zap.String("email", event.Email),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleUserRegistered(_ context.Context, event events.Event) error {
	a.logger.Info("UserRegistered",
		zap.String("user_id", event.UserID),
		zap.String("role", string(event.Role)))
	return nil
}

func (a *AuditService) handleTokenRejected(_ context.Context, event events.Event) error {
	a.logger.Info("TokenRejected", zap.Any("payload", event.Payload))
	return nil
}
