package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"colorpredict/internal/game"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	NATS    NATSConfig    `yaml:"nats"`
	Game    GameConfig    `yaml:"game"`
	Payment PaymentConfig `yaml:"payment"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	AppName      string        `yaml:"app_name"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	RateLimit    int           `yaml:"rate_limit"`
}

type RedisConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	ResultTTL time.Duration `yaml:"result_ttl"`
}

type NATSConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type GameConfig struct {
	Durations       map[string]int `yaml:"durations"`
	TickInterval    time.Duration  `yaml:"tick_interval"`
	CloseWindow     int            `yaml:"close_window"`
	HistoryLimit    int            `yaml:"history_limit"`
	SeedHistory     bool           `yaml:"seed_history"`
	StartingBalance string         `yaml:"starting_balance"`
	MinBet          string         `yaml:"min_bet"`
}

type PaymentConfig struct {
	MerchantID    string        `yaml:"merchant_id"`
	InviteCode    string        `yaml:"invite_code"`
	MinWithdraw   string        `yaml:"min_withdraw"`
	DepositDelay  time.Duration `yaml:"deposit_delay"`
	WithdrawDelay time.Duration `yaml:"withdraw_delay"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

func Default() *Config {
	durations := make(map[string]int, len(game.Modes))
	for m, secs := range game.DefaultDurations() {
		durations[string(m)] = secs
	}

	return &Config{
		Server: ServerConfig{
			Port:         8080,
			AppName:      "ChromaPredict",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
			RateLimit:    100,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "colorpredict",
			ResultTTL: time.Hour,
		},
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: "colorpredict",
		},
		Game: GameConfig{
			Durations:       durations,
			TickInterval:    game.TICK_INTERVAL,
			CloseWindow:     game.BET_CLOSE_WINDOW,
			HistoryLimit:    game.HISTORY_LIMIT,
			SeedHistory:     true,
			StartingBalance: "1000",
			MinBet:          "1",
		},
		Payment: PaymentConfig{
			MerchantID:    "colorpredict@upi",
			InviteCode:    "T1D7q2",
			MinWithdraw:   "100",
			DepositDelay:  game.DEPOSIT_DELAY,
			WithdrawDelay: game.WITHDRAW_DELAY,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Load layers defaults, the optional YAML file at path (or CONFIG_FILE), and
// environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvAsInt("PORT", c.Server.Port)
	c.Server.AppName = getEnv("APP_NAME", c.Server.AppName)

	c.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", c.Redis.Enabled)
	c.Redis.Addr = getEnv("REDIS_URL", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)

	c.NATS.Enabled = getEnvAsBool("NATS_ENABLED", c.NATS.Enabled)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)

	c.Game.TickInterval = getEnvAsDuration("GAME_TICK_INTERVAL", c.Game.TickInterval)
	c.Game.SeedHistory = getEnvAsBool("GAME_SEED_HISTORY", c.Game.SeedHistory)
	c.Game.StartingBalance = getEnv("GAME_STARTING_BALANCE", c.Game.StartingBalance)

	c.Payment.MerchantID = getEnv("MERCHANT_ID", c.Payment.MerchantID)
	c.Payment.InviteCode = getEnv("INVITE_CODE", c.Payment.InviteCode)
	c.Payment.DepositDelay = getEnvAsDuration("DEPOSIT_DELAY", c.Payment.DepositDelay)
	c.Payment.WithdrawDelay = getEnvAsDuration("WITHDRAW_DELAY", c.Payment.WithdrawDelay)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Encoding = getEnv("LOG_ENCODING", c.Log.Encoding)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Game.CloseWindow < 0 {
		return errors.New("close window must not be negative")
	}
	if _, err := c.SessionConfig(); err != nil {
		return err
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log encoding %q", c.Log.Encoding)
	}
	return nil
}

// SessionConfig converts the game and payment sections into the settings
// every player session is created with.
func (c *Config) SessionConfig() (game.SessionConfig, error) {
	durations := make(game.Durations, len(c.Game.Durations))
	for raw, secs := range c.Game.Durations {
		m, err := game.ParseMode(raw)
		if err != nil {
			return game.SessionConfig{}, err
		}
		durations[m] = secs
	}
	if err := durations.Validate(); err != nil {
		return game.SessionConfig{}, err
	}

	starting, err := parseAmount("starting_balance", c.Game.StartingBalance)
	if err != nil {
		return game.SessionConfig{}, err
	}
	minBet, err := parseAmount("min_bet", c.Game.MinBet)
	if err != nil {
		return game.SessionConfig{}, err
	}
	minWithdraw, err := parseAmount("min_withdraw", c.Payment.MinWithdraw)
	if err != nil {
		return game.SessionConfig{}, err
	}

	return game.SessionConfig{
		Durations:       durations,
		TickInterval:    c.Game.TickInterval,
		CloseWindow:     c.Game.CloseWindow,
		HistoryLimit:    c.Game.HistoryLimit,
		SeedHistory:     c.Game.SeedHistory,
		StartingBalance: starting,
		MinBet:          minBet,
		MinWithdraw:     minWithdraw,
		DepositDelay:    c.Payment.DepositDelay,
		WithdrawDelay:   c.Payment.WithdrawDelay,
	}, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative, got %s", field, raw)
	}
	return v, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
