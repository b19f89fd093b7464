package services

import (
	"context"
	"time"

	"tradetracker/src/models"
	"tradetracker/src/repositories"
	"tradetracker/src/utils"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type SettlementServiceI interface {
	SettleTrade(ctx context.Context, tx pgx.Tx, portfolioID, instrumentID int, tradeType models.TradeType, quantity, price decimal.Decimal, tradedAt time.Time) (*models.Trade, error)
}

// SettlementService applies a trade to the owning portfolio's holdings as one
// atomic unit of work: fee computation, trade insert and holding mutation
// either all commit or none do.
type SettlementService struct {
	portfolioRepository  repositories.PortfolioRepository
	instrumentRepository repositories.InstrumentRepository
	tradeRepository      repositories.TradeRepository
	holdingRepository    repositories.HoldingRepository
	feeService           FeeServiceI
}

func NewSettlementService(
	portfolioRepository repositories.PortfolioRepository,
	instrumentRepository repositories.InstrumentRepository,
	tradeRepository repositories.TradeRepository,
	holdingRepository repositories.HoldingRepository,
	feeService FeeServiceI,
) *SettlementService {
	return &SettlementService{
		portfolioRepository:  portfolioRepository,
		instrumentRepository: instrumentRepository,
		tradeRepository:      tradeRepository,
		holdingRepository:    holdingRepository,
		feeService:           feeService,
	}
}

// SettleTrade runs inside the caller's transaction and never opens its own:
// the caller owns commit and rollback, so any error returned here leaves no
// partial effects once the caller rolls back. A nil tx fails fast with
// ErrNoTransaction.
func (s *SettlementService) SettleTrade(ctx context.Context, tx pgx.Tx, portfolioID, instrumentID int, tradeType models.TradeType, quantity, price decimal.Decimal, tradedAt time.Time) (*models.Trade, error) {
	if tx == nil {
		return nil, ErrNoTransaction
	}
	if tradeType != models.TradeTypeBuy && tradeType != models.TradeTypeSell {
		return nil, ErrInvalidTradeType
	}
	if !quantity.IsPositive() {
		return nil, ErrNonPositiveQty
	}
	if !price.IsPositive() {
		return nil, ErrNonPositivePrice
	}

	portfolio, err := s.portfolioRepository.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, &NotFoundError{Resource: "portfolio", ID: portfolioID}
	}

	instrument, err := s.instrumentRepository.GetByID(ctx, instrumentID)
	if err != nil {
		return nil, err
	}
	if instrument == nil {
		return nil, &NotFoundError{Resource: "instrument", ID: instrumentID}
	}

	fee, err := s.feeService.CalculateFee(ctx, portfolio.BrokerAccountID, instrument.InstrumentType, tradeType, quantity, price)
	if err != nil {
		return nil, err
	}

	trade := &models.Trade{
		PortfolioID:  portfolioID,
		InstrumentID: instrumentID,
		TradeType:    tradeType,
		Quantity:     quantity,
		Price:        price,
		Fee:          fee,
		TradedAt:     tradedAt,
	}
	if err := s.tradeRepository.Create(ctx, trade, tx); err != nil {
		return nil, err
	}

	// Lock the pair's holding row for the rest of the transaction so that
	// concurrent trades against the same position serialize.
	holding, err := s.holdingRepository.GetByPortfolioAndInstrumentForUpdate(ctx, portfolioID, instrumentID, tx)
	if err != nil {
		return nil, err
	}

	outcome, err := ApplyTrade(trade, holding)
	if err != nil {
		return nil, err
	}

	switch {
	case outcome.Delete != nil:
		err = s.holdingRepository.Delete(ctx, outcome.Delete, tx)
	case outcome.Upsert != nil:
		err = s.holdingRepository.Upsert(ctx, outcome.Upsert, tx)
	}
	if err != nil {
		return nil, err
	}

	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"portfolio_id":  portfolioID,
		"instrument_id": instrumentID,
		"trade_type":    tradeType,
		"quantity":      quantity.String(),
		"fee":           fee.String(),
	}).Info("trade settled")

	return trade, nil
}
