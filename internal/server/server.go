package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"colorpredict/internal/cache"
	"colorpredict/internal/config"
	"colorpredict/internal/events"
	"colorpredict/internal/game"
	"colorpredict/internal/logger"
	"colorpredict/internal/metrics"
)

type FiberServer struct {
	*fiber.App

	cfg      *config.Config
	cache    cache.Service
	results  *cache.ResultPublisher
	emitter  *events.Emitter
	metrics  *metrics.Metrics
	gameHub  *game.Hub
	registry *game.Registry
	cancel   context.CancelFunc
}

type Option func(*options)

type options struct {
	sessionOpts []game.SessionOption
}

// WithSessionOptions passes extra options to every session the server
// creates, e.g. a fixed digit source.
func WithSessionOptions(opts ...game.SessionOption) Option {
	return func(o *options) { o.sessionOpts = append(o.sessionOpts, opts...) }
}

func New(cfg *config.Config, opts ...Option) (*FiberServer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	sessionCfg, err := cfg.SessionConfig()
	if err != nil {
		return nil, err
	}

	hub := game.NewHub()
	m := metrics.New()
	sinks := game.MultiSink{hub, m}

	var (
		redisService cache.Service
		results      *cache.ResultPublisher
		emitter      *events.Emitter
	)
	if cfg.Redis.Enabled {
		redisService = cache.New(cfg.Redis)
		if redisService != nil {
			results = cache.NewResultPublisher(redisService.GetClient(), cfg.Redis.KeyPrefix, cfg.Redis.ResultTTL)
			sinks = append(sinks, results)
		}
	}
	if cfg.NATS.Enabled {
		emitter, err = events.NewEmitter(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			logger.Warnf("[SERVER] Running without NATS: %v", err)
			emitter = nil
		} else {
			sinks = append(sinks, emitter)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	registry := game.NewRegistry(ctx, sessionCfg, sinks, o.sessionOpts...)

	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader:  cfg.Server.AppName,
			AppName:       cfg.Server.AppName,
			ReadTimeout:   cfg.Server.ReadTimeout,
			WriteTimeout:  cfg.Server.WriteTimeout,
			IdleTimeout:   cfg.Server.IdleTimeout,
			StrictRouting: false,
		}),

		cfg:      cfg,
		cache:    redisService,
		results:  results,
		emitter:  emitter,
		metrics:  m,
		gameHub:  hub,
		registry: registry,
		cancel:   cancel,
	}

	server.App.Use(recover.New())
	if cfg.Server.RateLimit > 0 {
		server.App.Use(limiter.New(limiter.Config{
			Max:        cfg.Server.RateLimit,
			Expiration: 1 * time.Minute,
		}))
	}

	go hub.Run()

	logger.Infof("[SERVER] Game hub started (redis=%t, nats=%t)", results != nil, emitter != nil)
	return server, nil
}

// Shutdown tells connected clients, stops every session, then the hub and
// outbound connections.
func (s *FiberServer) Shutdown() error {
	logger.Infof("[SERVER] Shutting down...")

	s.gameHub.Broadcast(game.Event{
		Type:      game.EventServerShutdown,
		Data:      "Server is shutting down",
		Timestamp: time.Now(),
	})
	s.registry.StopAll()
	s.cancel()
	s.gameHub.Stop()

	if s.emitter != nil {
		s.emitter.Close()
	}
	if s.cache != nil {
		s.cache.Close()
	}

	return s.App.Shutdown()
}
