package schemas

import (
	"tradetracker/src/models"

	"github.com/shopspring/decimal"
)

type CreateBrokerAccountRequest struct {
	Name string `json:"name"`
}

type CreatePortfolioRequest struct {
	Name            string `json:"name"`
	BrokerAccountID int    `json:"broker_account_id"`
}

type CreateInstrumentRequest struct {
	Symbol         string `json:"symbol"`
	Name           string `json:"name"`
	InstrumentType string `json:"instrument_type"`
	Currency       string `json:"currency"`
}

type CreateFeeRuleRequest struct {
	BrokerAccountID int              `json:"broker_account_id"`
	InstrumentType  string           `json:"instrument_type"`
	TradeType       models.TradeType `json:"trade_type"`
	Percentage      decimal.Decimal  `json:"percentage"`
	MinFee          decimal.Decimal  `json:"min_fee"`
}
