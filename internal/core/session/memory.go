package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	payload   Payload
	expiresAt time.Time
}

// MemoryStore 单实例部署用。所有写操作（Set/Destroy/清理）持写锁，读者看不到半删除的状态。
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Payload, error) {
	m.mu.RLock()
	e, ok := m.entries[token]
	m.mu.RUnlock()
	if !ok || !m.now().Before(e.expiresAt) {
		return nil, ErrNotFound
	}
	p := e.payload
	return &p, nil
}

func (m *MemoryStore) Set(_ context.Context, token string, p *Payload, ttl time.Duration) error {
	m.mu.Lock()
	m.entries[token] = memEntry{payload: *p, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.entries, token)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) DestroyUser(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tok, e := range m.entries {
		if e.payload.ID == userID {
			delete(m.entries, tok)
		}
	}
	return nil
}

// Sweep 删除已过期条目，返回删除数量
func (m *MemoryStore) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for tok, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, tok)
			n++
		}
	}
	return n
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// RunSweeper 定期清理，ctx 结束时退出
func (m *MemoryStore) RunSweeper(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
