package repository

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
)

// IdentityCache is the cache surface the decorator needs. The Redis client
// satisfies it via persistence.RedisIdentityCache.
type IdentityCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// cachedUserRepository is a read-through cache in front of the authoritative
// store. Cache failures degrade to the inner repository; negative lookups are
// never cached so a freshly created account is visible immediately.
type cachedUserRepository struct {
	inner  UserRepository
	cache  IdentityCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps repo with a read-through identity cache.
func NewCachedUserRepository(inner UserRepository, cache IdentityCache, ttl time.Duration, logger *zap.Logger) UserRepository {
	if cache == nil || ttl <= 0 {
		return inner
	}
	return &cachedUserRepository{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (r *cachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.inner.Create(ctx, user); err != nil {
		return err
	}
	// A stale entry under this email would shadow the new record.
	_ = r.cache.Delete(ctx, emailKey(user.Email))
	return nil
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.lookup(ctx, idKey(id), func(ctx context.Context) (*domain.User, error) {
		return r.inner.GetByID(ctx, id)
	})
}

func (r *cachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.lookup(ctx, emailKey(email), func(ctx context.Context) (*domain.User, error) {
		return r.inner.GetByEmail(ctx, email)
	})
}

func (r *cachedUserRepository) lookup(ctx context.Context, key string, load func(context.Context) (*domain.User, error)) (*domain.User, error) {
	if raw, err := r.cache.Get(ctx, key); err == nil && len(raw) > 0 {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err == nil {
			return &user, nil
		}
	}

	user, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(user); err == nil {
		if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
			r.logger.Debug("identity cache write failed", zap.Error(err))
		}
	}
	return user, nil
}

func idKey(id string) string       { return "identity:id:" + id }
func emailKey(email string) string { return "identity:email:" + email }
