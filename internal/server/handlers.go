package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"colorpredict/internal/game"
)

func randomSuffix() string {
	return uuid.NewString()[:8]
}

func (s *FiberServer) session(c *fiber.Ctx) (*game.Session, error) {
	return s.registry.Get(c.Params("playerId"))
}

func (s *FiberServer) stateHandler(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(session.Snapshot())
}

func (s *FiberServer) modeStateHandler(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return errorResponse(c, err)
	}
	mode, err := game.ParseMode(c.Params("mode"))
	if err != nil {
		return errorResponse(c, err)
	}
	state, err := session.ModeState(mode)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

type switchModeRequest struct {
	Mode string `json:"mode"`
}

func (s *FiberServer) switchModeHandler(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return errorResponse(c, err)
	}
	var req switchModeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := session.SwitchMode(mode); err != nil {
		return errorResponse(c, err)
	}
	state, _ := session.ModeState(mode)
	return c.JSON(state)
}

type switchViewRequest struct {
	View string `json:"view"`
}

func (s *FiberServer) switchViewHandler(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return errorResponse(c, err)
	}
	var req switchViewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	view, err := game.ParseView(req.View)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := session.SwitchView(view); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"player_id": session.PlayerID(),
		"view":      view,
	})
}

type placeBetRequest struct {
	Selection  *game.Selection `json:"selection"`
	Amount     decimal.Decimal `json:"amount"`
	Multiplier int             `json:"multiplier"`
	Quantity   int             `json:"quantity"`
}

// placeBetHandler stakes amount × multiplier × quantity on the active mode.
func (s *FiberServer) placeBetHandler(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return errorResponse(c, err)
	}
	var req placeBetRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	if req.Selection == nil {
		return badRequest(c, "Selection is required")
	}

	slip := game.BetSlip{Amount: req.Amount, Multiplier: req.Multiplier, Quantity: req.Quantity}
	bet, err := session.PlaceBet(*req.Selection, slip.Total())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(game.BetPlacedMessage{
		Bet:     bet,
		Balance: session.Balance(),
	})
}

func (s *FiberServer) listBetsHandler(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var filter game.BetFilter
	if raw := c.Query("mode"); raw != "" {
		if filter.Mode, err = game.ParseMode(raw); err != nil {
			return badRequest(c, err.Error())
		}
	}
	if raw := c.Query("status"); raw != "" {
		if filter.Status, err = game.ParseBetStatus(raw); err != nil {
			return badRequest(c, err.Error())
		}
	}

	bets := session.Bets(filter)
	return c.JSON(fiber.Map{
		"bets":  bets,
		"count": len(bets),
	})
}
