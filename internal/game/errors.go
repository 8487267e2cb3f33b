package game

import "errors"

var (
	ErrUnknownMode         = errors.New("unknown mode")
	ErrInvalidSelection    = errors.New("invalid selection")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrBelowMinimum        = errors.New("amount below minimum")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBettingClosed       = errors.New("betting is closed for this period")
	ErrNotAuthenticated    = errors.New("session is not authenticated")
	ErrAlreadyResolved     = errors.New("already resolved")
	ErrNotFound            = errors.New("not found")
	ErrUnknownPlayer       = errors.New("unknown player")
)
