//go:build integration

package match

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"example.com/wizard/internal/game"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, rdb.Ping(ctx).Err(), "redis is not reachable")
	return rdb
}

func TestRedisPersistence_CreateSaveLoad(t *testing.T) {
	ctx := context.Background()
	rdb := newRedisClient(t)

	// start from an empty db so the test is deterministic
	require.NoError(t, rdb.FlushDB(ctx).Err())

	persist := NewRedisMatchStore(rdb, time.Hour)
	cfg := Config{Rules: game.DefaultRules()}
	svc1 := NewMatchService(cfg, persist)

	matchID := "mtest1"
	m, err := svc1.Create(ctx, matchID, "u1", "Alice", "pw")
	require.NoError(t, err)
	require.NoError(t, m.Attach("u2", "Bob", "pw", newTestConn()))
	require.NoError(t, m.AddBot("u1", "Robo"))
	require.NoError(t, m.StartGame("u1"))
	before := m.Game()

	svc2 := NewMatchService(cfg, persist)
	m2, ok, err := svc2.GetOrLoad(ctx, matchID)
	require.NoError(t, err)
	require.True(t, ok)

	g := m2.Game()
	require.Equal(t, before.ID, g.ID)
	require.Equal(t, before.Round, g.Round)
	require.Equal(t, "pw", g.Password)
	require.Len(t, g.Players, 3)
	require.NotEqual(t, game.PhaseWaiting, g.Phase)

	ttl, err := rdb.TTL(ctx, "match:"+matchID+":snapshot").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}

func TestRedisPersistence_Missing(t *testing.T) {
	ctx := context.Background()
	rdb := newRedisClient(t)
	require.NoError(t, rdb.FlushDB(ctx).Err())

	_, found, err := NewRedisMatchStore(rdb, time.Hour).Load(ctx, "nope")
	require.NoError(t, err)
	require.False(t, found)
}
