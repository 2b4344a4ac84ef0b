package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMatchStore кладёт snapshot матча в Redis с TTL.
type RedisMatchStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisMatchStore(rdb *redis.Client, ttl time.Duration) *RedisMatchStore {
	return &RedisMatchStore{rdb: rdb, ttl: ttl}
}

func (s *RedisMatchStore) key(matchID string) string {
	return fmt.Sprintf("match:%s:snapshot", matchID)
}

func (s *RedisMatchStore) Save(ctx context.Context, matchID string, snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.rdb.Set(ctx, s.key(matchID), b, s.ttl).Err()
}

func (s *RedisMatchStore) Load(ctx context.Context, matchID string) (Snapshot, bool, error) {
	val, err := s.rdb.Get(ctx, s.key(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode snapshot %s: %w", matchID, err)
	}
	return snap, true, nil
}
