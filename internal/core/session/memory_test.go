package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-storefront/internal/domain"
)

func TestMemoryStore_SetGetDestroy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "t1", &Payload{ID: 1, Email: "a@x.com", Role: domain.RoleAdmin}, time.Hour))

	p, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", p.Email)

	// 返回的是副本
	p.Role = domain.RoleStandard
	again, _ := s.Get(ctx, "t1")
	assert.Equal(t, domain.RoleAdmin, again.Role)

	require.NoError(t, s.Destroy(ctx, "t1"))
	_, err = s.Get(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Destroy(ctx, "missing"))
}

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Now()
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "t1", &Payload{ID: 1}, 2*time.Hour))
	now = now.Add(2 * time.Hour)

	_, err := s.Get(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, s.Len())

	assert.Equal(t, 1, s.Sweep())
	assert.Zero(t, s.Len())
}

func TestMemoryStore_ConcurrentDestroyAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Set(ctx, fmt.Sprint(i), &Payload{ID: uint(i), Email: "x"}, time.Hour))
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		tok := fmt.Sprint(i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Destroy(ctx, tok)
		}()
		go func() {
			defer wg.Done()
			p, err := s.Get(ctx, tok)
			if err == nil {
				assert.Equal(t, "x", p.Email)
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, s.Len())
}

func TestRunSweeper_StopsOnCancel(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestHasRole(t *testing.T) {
	assert.False(t, HasRole(nil, domain.RoleAdmin))
	assert.False(t, HasRole(&Payload{Role: domain.RoleStandard}, domain.RoleAdmin))
	assert.True(t, HasRole(&Payload{Role: domain.RoleAdmin}, domain.RoleAdmin))
}

func TestFromUser_ExcludesHash(t *testing.T) {
	p := FromUser(&domain.User{ID: 7, Email: "a@x.com", PasswordHash: "$2a$10$abc", Role: domain.RoleAdmin})
	assert.Equal(t, uint(7), p.ID)
	assert.Equal(t, domain.RoleAdmin, p.Role)
	assert.NotContains(t, fmt.Sprintf("%+v", *p), "$2a$10$abc")
}
