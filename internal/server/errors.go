package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"colorpredict/internal/game"
	"colorpredict/internal/logger"
	"colorpredict/internal/payment"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrUnknownPlayer),
		errors.Is(err, game.ErrUnknownMode),
		errors.Is(err, game.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, game.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, game.ErrBettingClosed),
		errors.Is(err, game.ErrAlreadyResolved):
		return fiber.StatusConflict
	case errors.Is(err, game.ErrInvalidSelection),
		errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, game.ErrBelowMinimum),
		errors.Is(err, game.ErrInsufficientBalance),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidReference),
		errors.Is(err, payment.ErrUnknownMethod),
		errors.Is(err, payment.ErrIncompleteBankDetails),
		errors.Is(err, payment.ErrIncompleteUPIDetails),
		errors.Is(err, payment.ErrInvalidPhone):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logger.Errorf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}
