package schemas

import (
	"time"

	"tradetracker/src/models"

	"github.com/shopspring/decimal"
)

type TradeRequest struct {
	PortfolioID  int              `json:"portfolio_id"`
	InstrumentID int              `json:"instrument_id"`
	TradeType    models.TradeType `json:"trade_type"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Price        decimal.Decimal  `json:"price"`
	TradedAt     time.Time        `json:"traded_at"`
}

type TradeResponse struct {
	ID           int              `json:"id"`
	PortfolioID  int              `json:"portfolio_id"`
	InstrumentID int              `json:"instrument_id"`
	TradeType    models.TradeType `json:"trade_type"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Price        decimal.Decimal  `json:"price"`
	Fee          decimal.Decimal  `json:"fee"`
	TradedAt     time.Time        `json:"traded_at"`
	CreatedAt    time.Time        `json:"created_at"`
}

func NewTradeResponse(t *models.Trade) *TradeResponse {
	return &TradeResponse{
		ID:           t.ID,
		PortfolioID:  t.PortfolioID,
		InstrumentID: t.InstrumentID,
		TradeType:    t.TradeType,
		Quantity:     t.Quantity,
		Price:        t.Price,
		Fee:          t.Fee,
		TradedAt:     t.TradedAt,
		CreatedAt:    t.CreatedAt,
	}
}
