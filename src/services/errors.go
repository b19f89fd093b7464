package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNoTransaction is returned when SettleTrade is invoked without an open
// transaction. Settlement never begins a transaction of its own.
var ErrNoTransaction = errors.New("trade settlement requires an open transaction")

var (
	ErrInvalidTradeType = errors.New("trade type must be BUY or SELL")
	ErrNonPositiveQty   = errors.New("trade quantity must be positive")
	ErrNonPositivePrice = errors.New("trade price must be positive")
)

// NotFoundError reports a missing referenced record (portfolio, instrument,
// broker account). An absent fee rule is not an error, it defaults to zero fee.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// InsufficientHoldingsError is raised when a sell exceeds the available
// position. The holding and the trade record are both left untouched.
type InsufficientHoldingsError struct {
	PortfolioID  int
	InstrumentID int
	Attempted    decimal.Decimal
	Available    decimal.Decimal
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings for portfolio %d instrument %d: attempted to sell %s, available %s",
		e.PortfolioID, e.InstrumentID, e.Attempted, e.Available)
}
