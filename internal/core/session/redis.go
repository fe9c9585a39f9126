package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisPrefix     = "sess:"
	redisUserPrefix = "sess_user:" // 集合：用户 id -> 其名下 token
)

// RedisStore 多实例部署用；过期交给 Redis 的 TTL。
// 每个 token 另外登记到用户集合里，集合 TTL 跟随最近一次登录。
type RedisStore struct {
	rdb redis.UniversalClient
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore { return &RedisStore{rdb: rdb} }

func userKey(id uint) string { return redisUserPrefix + strconv.FormatUint(uint64(id), 10) }

func (s *RedisStore) Get(ctx context.Context, token string) (*Payload, error) {
	b, err := s.rdb.Get(ctx, redisPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var p Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RedisStore) Set(ctx context.Context, token string, p *Payload, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisPrefix+token, b, ttl)
		pipe.SAdd(ctx, userKey(p.ID), token)
		pipe.Expire(ctx, userKey(p.ID), ttl)
		return nil
	})
	return err
}

// Destroy 不从用户集合里摘 token；集合里残留的 token 在 DestroyUser 时删的是不存在的键，无副作用
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, redisPrefix+token).Err()
}

func (s *RedisStore) DestroyUser(ctx context.Context, userID uint) error {
	tokens, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, redisPrefix+t)
	}
	keys = append(keys, userKey(userID))
	return s.rdb.Del(ctx, keys...).Err()
}
