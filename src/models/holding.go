package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a portfolio's current position in one instrument. At most one
// row exists per (portfolio, instrument) pair; a row with zero quantity is
// never stored, the row is deleted instead.
type Holding struct {
	ID           int             `db:"id"`
	PortfolioID  int             `db:"portfolio_id"`
	InstrumentID int             `db:"instrument_id"`
	Quantity     decimal.Decimal `db:"quantity"`
	AverageCost  decimal.Decimal `db:"average_cost"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
