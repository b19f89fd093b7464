package services

import (
	"tradetracker/src/models"

	"github.com/shopspring/decimal"
)

// AverageCostScale is the fixed scale for average cost per unit. Rounding is
// half-up, matching the brokerage statements the holdings are reconciled
// against.
const AverageCostScale = 4

// HoldingOutcome is the result of applying one trade to a position. Exactly
// one of Upsert and Delete is set.
type HoldingOutcome struct {
	// Upsert holds the new holding state to persist.
	Upsert *models.Holding
	// Delete holds the existing row to remove; set when a sell brings the
	// position to exactly zero.
	Delete *models.Holding
}

// ApplyTrade computes the holding transition for a trade under weighted
// average cost accounting. existing is the pair's current holding, or nil
// when the portfolio has no position in the instrument. The function is pure:
// it never mutates its arguments and persists nothing.
//
// Buys blend into the running average with the fee capitalized into cost
// basis. Sells reduce quantity and leave the average cost untouched; selling
// more than the available quantity fails with InsufficientHoldingsError, and
// selling the exact position removes the holding.
func ApplyTrade(trade *models.Trade, existing *models.Holding) (HoldingOutcome, error) {
	switch trade.TradeType {
	case models.TradeTypeBuy:
		return applyBuy(trade, existing), nil
	case models.TradeTypeSell:
		return applySell(trade, existing)
	default:
		return HoldingOutcome{}, ErrInvalidTradeType
	}
}

func applyBuy(trade *models.Trade, existing *models.Holding) HoldingOutcome {
	newHolding := &models.Holding{
		PortfolioID:  trade.PortfolioID,
		InstrumentID: trade.InstrumentID,
		UpdatedAt:    trade.TradedAt,
	}

	cost := trade.Quantity.Mul(trade.Price).Add(trade.Fee)
	if existing == nil {
		newHolding.Quantity = trade.Quantity
		newHolding.AverageCost = cost.DivRound(trade.Quantity, AverageCostScale)
		return HoldingOutcome{Upsert: newHolding}
	}

	newQty := existing.Quantity.Add(trade.Quantity)
	totalCost := existing.Quantity.Mul(existing.AverageCost).Add(cost)

	newHolding.ID = existing.ID
	newHolding.Quantity = newQty
	newHolding.AverageCost = totalCost.DivRound(newQty, AverageCostScale)
	return HoldingOutcome{Upsert: newHolding}
}

func applySell(trade *models.Trade, existing *models.Holding) (HoldingOutcome, error) {
	available := decimal.Zero
	if existing != nil {
		available = existing.Quantity
	}

	// Exact decimal comparison; quantities are never approximated.
	if available.LessThan(trade.Quantity) {
		return HoldingOutcome{}, &InsufficientHoldingsError{
			PortfolioID:  trade.PortfolioID,
			InstrumentID: trade.InstrumentID,
			Attempted:    trade.Quantity,
			Available:    available,
		}
	}

	newQty := existing.Quantity.Sub(trade.Quantity)
	if newQty.IsZero() {
		// A zero position is not retained as a row.
		return HoldingOutcome{Delete: existing}, nil
	}

	return HoldingOutcome{Upsert: &models.Holding{
		ID:           existing.ID,
		PortfolioID:  existing.PortfolioID,
		InstrumentID: existing.InstrumentID,
		Quantity:     newQty,
		AverageCost:  existing.AverageCost,
		UpdatedAt:    trade.TradedAt,
	}}, nil
}
