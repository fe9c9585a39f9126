package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON 按 JSON 缓存任意值。
// c 为 nil（未配置 Redis）时直接回源；缓存里的值解不开时删掉该 key 并回源，不把坏数据返回给调用方。
func GetOrLoadJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	if c == nil {
		return load(ctx)
	}
	var fresh *T
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		fresh = &v
		return json.Marshal(v)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if fresh != nil {
		return *fresh, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		_ = c.RDB.Del(ctx, key).Err()
		return load(ctx)
	}
	return out, nil
}
