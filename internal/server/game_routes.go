package server

import "github.com/gofiber/fiber/v2"

// RegisterGameRoutes registers the player-scoped routes. Every handler
// resolves :playerId to a live session first.
func (s *FiberServer) RegisterGameRoutes(api fiber.Router) {
	players := api.Group("/players/:playerId")

	players.Get("/state", s.stateHandler)
	players.Get("/modes/:mode", s.modeStateHandler)
	players.Get("/results/:mode/latest", s.latestResultHandler)
	players.Post("/mode", s.switchModeHandler)
	players.Post("/view", s.switchViewHandler)

	players.Post("/bets", s.placeBetHandler)
	players.Get("/bets", s.listBetsHandler)

	players.Post("/deposits/checkout", s.checkoutHandler)
	players.Post("/deposits", s.depositHandler)
	players.Post("/withdrawals", s.withdrawHandler)
	players.Get("/transactions", s.listTransactionsHandler)
	players.Post("/invites", s.inviteHandler)
}
