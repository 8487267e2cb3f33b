package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"colorpredict/internal/config"
	"colorpredict/internal/game"
	"colorpredict/internal/logger"
)

const PUBLISH_TIMEOUT = 2 * time.Second

var ErrNoResult = errors.New("no cached result")

type Service interface {
	GetClient() *redis.Client
	Health() map[string]string
	Close() error
}

type service struct {
	client *redis.Client
}

// New connects to Redis. It returns nil when Redis cannot be reached; the
// game runs without result fan-out in that case.
func New(cfg config.RedisConfig) Service {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Warnf("[CACHE] Redis connection failed: %v", err)
		logger.Warnf("[CACHE] Running without Redis result fan-out")
		client.Close()
		return nil
	}

	logger.Infof("[CACHE] Redis connected successfully")
	return &service{client: client}
}

func (s *service) GetClient() *redis.Client {
	return s.client
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	_, err := s.client.Ping(ctx).Result()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("redis down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "Redis is healthy"

	poolStats := s.client.PoolStats()
	stats["hits"] = strconv.FormatUint(uint64(poolStats.Hits), 10)
	stats["misses"] = strconv.FormatUint(uint64(poolStats.Misses), 10)
	stats["timeouts"] = strconv.FormatUint(uint64(poolStats.Timeouts), 10)
	stats["total_conns"] = strconv.FormatUint(uint64(poolStats.TotalConns), 10)
	stats["idle_conns"] = strconv.FormatUint(uint64(poolStats.IdleConns), 10)

	return stats
}

func (s *service) Close() error {
	logger.Infof("[CACHE] Disconnecting from Redis")
	return s.client.Close()
}

// ResultPublisher mirrors settled rounds into Redis. Every player's session
// draws on its own, so keys and channels are scoped by player and mode.
type ResultPublisher struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewResultPublisher(client *redis.Client, prefix string, ttl time.Duration) *ResultPublisher {
	if prefix == "" {
		prefix = "colorpredict"
	}
	return &ResultPublisher{client: client, prefix: prefix, ttl: ttl}
}

func (p *ResultPublisher) ResultsChannel(playerID string, m game.Mode) string {
	return fmt.Sprintf("%s:results:%s:%s", p.prefix, playerID, m)
}

func (p *ResultPublisher) LatestKey(playerID string, m game.Mode) string {
	return fmt.Sprintf("%s:latest:%s:%s", p.prefix, playerID, m)
}

// Publish implements game.EventSink. Only round_result events are mirrored;
// the write happens off the caller's goroutine.
func (p *ResultPublisher) Publish(e game.Event) {
	if e.Type != game.EventRoundResult || e.PlayerID == "" {
		return
	}
	msg, ok := e.Data.(game.RoundResultMessage)
	if !ok {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PUBLISH_TIMEOUT)
		defer cancel()
		if err := p.Store(ctx, e.PlayerID, msg.Result); err != nil {
			logger.Errorf("[CACHE] Failed to publish result %s %s/%s: %v", e.PlayerID, e.Mode, msg.Result.PeriodID, err)
		}
	}()
}

func (p *ResultPublisher) Store(ctx context.Context, playerID string, result game.GameResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, p.LatestKey(playerID, result.Mode), payload, p.ttl)
	pipe.Publish(ctx, p.ResultsChannel(playerID, result.Mode), payload)
	_, err = pipe.Exec(ctx)
	return err
}

func (p *ResultPublisher) Latest(ctx context.Context, playerID string, m game.Mode) (game.GameResult, error) {
	data, err := p.client.Get(ctx, p.LatestKey(playerID, m)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.GameResult{}, ErrNoResult
	}
	if err != nil {
		return game.GameResult{}, err
	}

	var result game.GameResult
	if err := json.Unmarshal(data, &result); err != nil {
		return game.GameResult{}, err
	}
	return result, nil
}
