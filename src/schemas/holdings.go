package schemas

import (
	"time"

	"tradetracker/src/models"

	"github.com/shopspring/decimal"
)

type HoldingResponse struct {
	PortfolioID  int             `json:"portfolio_id"`
	InstrumentID int             `json:"instrument_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewHoldingResponses(holdings []models.Holding) []HoldingResponse {
	responses := make([]HoldingResponse, 0, len(holdings))
	for _, h := range holdings {
		responses = append(responses, HoldingResponse{
			PortfolioID:  h.PortfolioID,
			InstrumentID: h.InstrumentID,
			Quantity:     h.Quantity,
			AverageCost:  h.AverageCost,
			UpdatedAt:    h.UpdatedAt,
		})
	}
	return responses
}
