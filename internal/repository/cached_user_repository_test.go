package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
)

type mapCache struct {
	entries map[string][]byte
	err     error
}

func newMapCache() *mapCache { return &mapCache{entries: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.entries[key], nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.entries[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

type countingRepo struct {
	users map[string]*domain.User
	calls int
}

func (r *countingRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *countingRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.calls++
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *countingRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls++
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func TestCachedRepoServesSecondReadFromCache(t *testing.T) {
	inner := &countingRepo{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Email: "doc@x.com", Role: domain.RoleDoctor},
	}}
	repo := NewCachedUserRepository(inner, newMapCache(), time.Minute, zap.NewNop())

	first, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedRepoDoesNotCacheMisses(t *testing.T) {
	inner := &countingRepo{users: map[string]*domain.User{}}
	repo := NewCachedUserRepository(inner, newMapCache(), time.Minute, zap.NewNop())

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.Equal(t, pgx.ErrNoRows, err)
	_, err = repo.GetByID(context.Background(), "ghost")
	assert.Equal(t, pgx.ErrNoRows, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedRepoDegradesOnCacheFailure(t *testing.T) {
	inner := &countingRepo{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Email: "doc@x.com"},
	}}
	cache := newMapCache()
	cache.err = errors.New("redis down")
	repo := NewCachedUserRepository(inner, cache, time.Minute, zap.NewNop())

	user, err := repo.GetByEmail(context.Background(), "doc@x.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestNilCacheReturnsInnerRepo(t *testing.T) {
	inner := &countingRepo{users: map[string]*domain.User{}}
	repo := NewCachedUserRepository(inner, nil, time.Minute, zap.NewNop())
	assert.Equal(t, UserRepository(inner), repo)
}
