// README: Handoff store backed by a single Redis string key.
package ride

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	redis *redis.Client
	key   string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{redis: rdb, key: key}
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	blob, err := s.redis.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return blob, err
}

func (s *RedisStore) Save(ctx context.Context, blob []byte) error {
	return s.redis.Set(ctx, s.key, blob, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context) error {
	return s.redis.Del(ctx, s.key).Err()
}
