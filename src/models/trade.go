package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

// Trade is immutable once created; the fee is computed at settlement time
// and stored with the record.
type Trade struct {
	ID           int             `db:"id"`
	PortfolioID  int             `db:"portfolio_id"`
	InstrumentID int             `db:"instrument_id"`
	TradeType    TradeType       `db:"trade_type"`
	Quantity     decimal.Decimal `db:"quantity"`
	Price        decimal.Decimal `db:"price"`
	Fee          decimal.Decimal `db:"fee"`
	TradedAt     time.Time       `db:"traded_at"`
	CreatedAt    time.Time       `db:"created_at"`
}
