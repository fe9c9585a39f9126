package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-storefront/internal/domain"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStore(rdb)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "tok", &Payload{ID: 3, Email: "b@x.com", Role: domain.RoleAdmin}, 2*time.Hour))
	assert.True(t, mr.Exists("sess:tok"))
	assert.Equal(t, 2*time.Hour, mr.TTL("sess:tok"))

	p, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, uint(3), p.ID)
	assert.Equal(t, domain.RoleAdmin, p.Role)

	mr.FastForward(2*time.Hour + time.Second)
	_, err = s.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "tok2", &Payload{ID: 4}, time.Hour))
	require.NoError(t, s.Destroy(ctx, "tok2"))
	_, err = s.Get(ctx, "tok2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_BackendDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	s := NewRedisStore(rdb)
	_, err := s.Get(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Destroy(context.Background(), "tok"))
}

func TestRedisStore_DestroyUser(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStore(rdb)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a1", &Payload{ID: 1}, time.Hour))
	require.NoError(t, s.Set(ctx, "a2", &Payload{ID: 1}, time.Hour))
	require.NoError(t, s.Set(ctx, "b1", &Payload{ID: 2}, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("sess_user:1"))

	// 已登出的 token 仍留在集合里，不影响批量删除
	require.NoError(t, s.Destroy(ctx, "a2"))
	require.NoError(t, s.DestroyUser(ctx, 1))

	for _, tok := range []string{"a1", "a2"} {
		_, err := s.Get(ctx, tok)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.False(t, mr.Exists("sess_user:1"))
	_, err := s.Get(ctx, "b1")
	assert.NoError(t, err)

	require.NoError(t, s.DestroyUser(ctx, 42))
}
