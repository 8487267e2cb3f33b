package server

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/shopspring/decimal"

	"colorpredict/internal/cache"
	"colorpredict/internal/game"
	"colorpredict/internal/logger"
)

func (s *FiberServer) RegisterFiberRoutes() {
	s.App.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Accept,Authorization,Content-Type",
		AllowCredentials: false, // credentials require explicit origins
		MaxAge:           300,
	}))

	s.App.Get("/health", s.healthHandler)
	s.App.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	api := s.App.Group("/api/v1")
	api.Post("/auth/login", s.loginHandler)
	api.Post("/auth/logout", s.logoutHandler)

	s.RegisterGameRoutes(api)

	s.App.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.App.Get("/ws", websocket.New(s.gameWebSocketHandler))
}

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	health := fiber.Map{
		"status": "ok",
		"game": fiber.Map{
			"status":            "running",
			"sessions":          s.registry.Count(),
			"connected_clients": s.gameHub.GetClientCount(),
		},
	}
	if s.cache != nil {
		health["cache"] = s.cache.Health()
	}
	if s.emitter != nil {
		health["nats"] = "connected"
	}
	return c.JSON(health)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Guest      bool   `json:"guest"`
}

// loginHandler accepts any non-empty identifier; guest logins get a
// generated one. Credentials are not checked.
func (s *FiberServer) loginHandler(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Guest && req.Identifier == "" {
		req.Identifier = "guest-" + randomSuffix()
	}

	session, err := s.registry.Authenticate(req.Identifier)
	if err != nil {
		return badRequest(c, "Identifier is required")
	}
	return c.JSON(session.Snapshot())
}

type logoutRequest struct {
	Identifier string `json:"identifier"`
}

func (s *FiberServer) logoutHandler(c *fiber.Ctx) error {
	var req logoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := s.registry.Logout(req.Identifier); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"player_id": req.Identifier,
		"message":   "Logged out",
	})
}

// latestResultHandler reads the player's newest outcome for a mode back
// from Redis.
func (s *FiberServer) latestResultHandler(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return errorResponse(c, err)
	}
	mode, err := game.ParseMode(c.Params("mode"))
	if err != nil {
		return errorResponse(c, err)
	}
	if s.results == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Result cache is not enabled",
		})
	}

	result, err := s.results.Latest(c.Context(), session.PlayerID(), mode)
	if errors.Is(err, cache.ErrNoResult) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No result yet for " + string(mode),
		})
	}
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

type clientMessage struct {
	Type      string          `json:"type"`
	Mode      string          `json:"mode"`
	Selection game.Selection  `json:"selection"`
	Amount    decimal.Decimal `json:"amount"`
}

// gameWebSocketHandler streams the player's session events and accepts
// place_bet, switch_mode and ping messages.
func (s *FiberServer) gameWebSocketHandler(conn *websocket.Conn) {
	playerID := conn.Query("player_id")

	session, err := s.registry.Get(playerID)
	if err != nil {
		logger.Warnf("[WS] Rejected connection for unknown player %q", playerID)
		data, _ := json.Marshal(game.Event{Type: game.EventError, PlayerID: playerID, Data: err.Error()})
		conn.WriteMessage(websocket.TextMessage, data)
		conn.Close()
		return
	}

	logger.Infof("[WS] New connection from player: %s", playerID)

	client := s.gameHub.RegisterClient(conn, playerID)
	client.SendInitialState(session.Snapshot())

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			logger.Debugf("[WS] Read error for player %s: %v", playerID, err)
			s.gameHub.UnregisterClient(client)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			client.Reply(game.EventError, err.Error())
			continue
		}

		switch msg.Type {
		case "place_bet":
			if _, err := session.PlaceBet(msg.Selection, msg.Amount); err != nil {
				client.Reply(game.EventError, err.Error())
			}

		case "switch_mode":
			mode, err := game.ParseMode(msg.Mode)
			if err == nil {
				err = session.SwitchMode(mode)
			}
			if err != nil {
				client.Reply(game.EventError, err.Error())
				continue
			}
			state, _ := session.ModeState(mode)
			client.Reply(game.EventModeSwitched, state)

		case "ping":
			client.Reply(game.EventPong, nil)
		}
	}
}
