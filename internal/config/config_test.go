package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colorpredict/internal/game"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		defaultVal string
		envValue   string
		want       string
	}{
		{
			name:       "Environment variable exists",
			key:        "TEST_KEY_EXISTS",
			defaultVal: "default",
			envValue:   "custom_value",
			want:       "custom_value",
		},
		{
			name:       "Environment variable does not exist",
			key:        "TEST_KEY_NOT_EXISTS",
			defaultVal: "default_value",
			want:       "default_value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.want, getEnv(tt.key, tt.defaultVal))
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		defaultVal int
		envValue   string
		want       int
	}{
		{"Valid integer", "TEST_INT_VALID", 0, "42", 42},
		{"Invalid integer", "TEST_INT_INVALID", 10, "not_a_number", 10},
		{"Empty value", "TEST_INT_EMPTY", 5, "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.want, getEnvAsInt(tt.key, tt.defaultVal))
		})
	}
}

func TestGetEnvAsBoolAndDuration(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BOOL_BAD", "maybe")
	t.Setenv("TEST_DURATION", "250ms")

	assert.True(t, getEnvAsBool("TEST_BOOL", false))
	assert.True(t, getEnvAsBool("TEST_BOOL_BAD", true))
	assert.Equal(t, 250*time.Millisecond, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_DURATION_MISSING", time.Second))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "T1D7q2", cfg.Payment.InviteCode)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.NATS.Enabled)

	sc, err := cfg.SessionConfig()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultDurations(), sc.Durations)
	assert.True(t, sc.StartingBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, sc.MinBet.Equal(decimal.NewFromInt(1)))
	assert.True(t, sc.MinWithdraw.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 3, sc.CloseWindow)
	assert.Equal(t, 50, sc.HistoryLimit)
	assert.Equal(t, 4*time.Second, sc.DepositDelay)
	assert.Equal(t, 30*time.Second, sc.WithdrawDelay)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: 9090
redis:
  enabled: true
  addr: redis:6379
game:
  durations:
    30S: 10
    1M: 20
    3M: 30
    5M: 40
  tick_interval: 500ms
  starting_balance: "250.50"
payment:
  withdraw_delay: 0s
log:
  encoding: console
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("PORT", "7070")
	t.Setenv("REDIS_URL", "cache:6380")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port, "env overrides file")
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, "console", cfg.Log.Encoding)

	sc, err := cfg.SessionConfig()
	require.NoError(t, err)
	assert.Equal(t, 10, sc.Durations[game.Mode30S])
	assert.Equal(t, 40, sc.Durations[game.Mode5M])
	assert.Equal(t, 500*time.Millisecond, sc.TickInterval)
	assert.True(t, sc.StartingBalance.Equal(decimal.RequireFromString("250.50")))
	assert.Zero(t, sc.WithdrawDelay)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown mode", "game:\n  durations:\n    2M: 120\n"},
		{"non-positive duration", "game:\n  durations:\n    30S: 0\n"},
		{"bad balance", "game:\n  starting_balance: lots\n"},
		{"bad encoding", "log:\n  encoding: xml\n"},
		{"bad port", "server:\n  port: 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
