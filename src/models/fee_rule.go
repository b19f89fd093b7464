package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeRule is keyed by the unique (broker account, instrument type, trade type)
// triple. Percentage is stored with 4 decimal places, MinFee with 2.
type FeeRule struct {
	ID              int             `db:"id"`
	BrokerAccountID int             `db:"broker_account_id"`
	InstrumentType  string          `db:"instrument_type"`
	TradeType       TradeType       `db:"trade_type"`
	Percentage      decimal.Decimal `db:"percentage"`
	MinFee          decimal.Decimal `db:"min_fee"`
	CreatedAt       time.Time       `db:"created_at"`
}
