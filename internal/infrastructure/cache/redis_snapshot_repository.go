package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/po-composer/internal/domain/repository"
)

type redisSnapshotRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisSnapshotRepository stores snapshots as plain string keys. A zero
// ttl keeps them until deleted.
func NewRedisSnapshotRepository(rdb redis.Cmdable, ttl time.Duration) repository.SnapshotRepository {
	return &redisSnapshotRepository{rdb: rdb, ttl: ttl}
}

func (r *redisSnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	payload, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return payload, nil
}

func (r *redisSnapshotRepository) Save(ctx context.Context, key string, payload []byte) error {
	return r.rdb.Set(ctx, key, payload, r.ttl).Err()
}

func (r *redisSnapshotRepository) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}
