package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"colorpredict/internal/game"
	"colorpredict/internal/payment"
)

type checkoutRequest struct {
	Amount string `json:"amount"`
}

// checkoutHandler prices a deposit. Amount may be a preset such as "2.5K".
func (s *FiberServer) checkoutHandler(c *fiber.Ctx) error {
	if _, err := s.session(c); err != nil {
		return errorResponse(c, err)
	}
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	amount, err := payment.ParseAmount(req.Amount)
	if err != nil {
		return errorResponse(c, err)
	}
	checkout, err := payment.NewCheckout(s.cfg.Payment.MerchantID, amount)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(checkout)
}

type depositRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

func (s *FiberServer) depositHandler(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return errorResponse(c, err)
	}
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	tx, err := session.RequestDeposit(req.Amount, req.Reference)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(game.TransactionMessage{
		Transaction: tx,
		Balance:     session.Balance(),
	})
}

type withdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
	payment.WithdrawalForm
}

func (s *FiberServer) withdrawHandler(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return errorResponse(c, err)
	}
	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := req.WithdrawalForm.Validate(); err != nil {
		return errorResponse(c, err)
	}
	tx, err := session.RequestWithdraw(req.Amount, req.WithdrawalForm.Details())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(game.TransactionMessage{
		Transaction: tx,
		Balance:     session.Balance(),
	})
}

func (s *FiberServer) listTransactionsHandler(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var kind game.TransactionKind
	if raw := c.Query("kind"); raw != "" {
		if kind, err = game.ParseTransactionKind(raw); err != nil {
			return badRequest(c, err.Error())
		}
	}

	txs := session.Transactions(kind)
	return c.JSON(fiber.Map{
		"transactions": txs,
		"count":        len(txs),
	})
}

type inviteRequest struct {
	Phone string `json:"phone"`
}

func (s *FiberServer) inviteHandler(c *fiber.Ctx) error {
	if _, err := s.session(c); err != nil {
		return errorResponse(c, err)
	}
	var req inviteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	link, err := payment.InviteLink(s.cfg.Server.AppName, s.cfg.Payment.InviteCode, req.Phone)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"code":    s.cfg.Payment.InviteCode,
		"message": payment.InviteMessage(s.cfg.Server.AppName, s.cfg.Payment.InviteCode),
		"link":    link,
	})
}
