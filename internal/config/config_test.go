package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/wizard/internal/game"
)

func missing(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.env")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "HTTP_ADDR", "LOG_LEVEL", "REDIS_ADDR", "BOT_DELAY", "METRICS_NAMESPACE"} {
		t.Setenv(k, "")
	}
	c, err := LoadFromEnv(missing(t))
	require.NoError(t, err)

	assert.Equal(t, "dev", c.Env)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Equal(t, slog.LevelInfo, c.Log.Level)
	assert.Empty(t, c.Redis.Addr)
	assert.Equal(t, game.DefaultRules(), c.Game.Rules)
	assert.Equal(t, 800*time.Millisecond, c.Game.BotDelay)
	assert.Equal(t, "wizard", c.Metrics.Namespace)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("GAME_FORBIDDEN_BID", "last_bidder")
	t.Setenv("GAME_HOST_TRANSFER", "longest_seated")
	t.Setenv("GAME_MAX_ROUNDS", "5")
	t.Setenv("GAME_AUTO_ADVANCE", "false")
	t.Setenv("BOT_DELAY", "0s")

	c, err := LoadFromEnv(missing(t))
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.HTTP.Addr)
	assert.Equal(t, slog.LevelDebug, c.Log.Level)
	assert.Equal(t, game.ForbiddenBidLastBidder, c.Game.Rules.ForbiddenBid)
	assert.Equal(t, game.HostTransferLongestSeated, c.Game.Rules.HostTransfer)
	assert.Equal(t, 5, c.Game.Rules.MaxRounds)
	assert.False(t, c.Game.Rules.AutoAdvance)
	assert.Zero(t, c.Game.BotDelay)
}

func TestLoadFromEnv_DotEnvFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(f, []byte("REDIS_ADDR=cache:6379\nMETRICS_NAMESPACE=cards\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("METRICS_NAMESPACE")
	})

	c, err := LoadFromEnv(f)
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", c.Redis.Addr)
	assert.Equal(t, "cards", c.Metrics.Namespace)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	cases := []struct {
		name, key, val string
	}{
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad log level", "LOG_LEVEL", "loud"},
		{"bad forbidden bid", "GAME_FORBIDDEN_BID", "sometimes"},
		{"too few players", "GAME_MIN_PLAYERS", "2"},
		{"default secret in prod", "APP_ENV", "prod"},
		{"bad namespace", "METRICS_NAMESPACE", "my-app"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := LoadFromEnv(missing(t))
			assert.Error(t, err)
		})
	}
}
