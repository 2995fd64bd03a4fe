package service

import (
	"errors"
	"fmt"
	"time"
)

// Business-rule refusals. These are expected, frequent outcomes; callers
// branch on them with errors.Is / errors.As and they are never logged as
// failures.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrUnknownItem       = errors.New("unknown shop item")
	ErrNotInInventory    = errors.New("item not in inventory")
	ErrInvalidPrefix     = errors.New("prefix must be 1-10 characters")
	ErrInvalidCall       = errors.New("invalid call")
)

// CooldownError is returned when a daily claim happens before the 24h
// window since the previous claim has elapsed.
type CooldownError struct {
	Remaining time.Duration
	NextClaim time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("daily reward on cooldown for %s", e.Remaining.Round(time.Second))
}
