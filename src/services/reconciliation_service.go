package services

import (
	"context"
	"fmt"

	"tradetracker/src/models"
	"tradetracker/src/repositories"
	"tradetracker/src/utils"

	"github.com/sirupsen/logrus"
)

// Discrepancy describes one mismatch between a stored holding and the
// position derived by replaying the portfolio's trade history.
type Discrepancy struct {
	PortfolioID  int    `json:"portfolio_id"`
	InstrumentID int    `json:"instrument_id"`
	Detail       string `json:"detail"`
}

type ReconciliationServiceI interface {
	ReconcilePortfolio(ctx context.Context, portfolioID int) ([]Discrepancy, error)
	ReconcileAll(ctx context.Context) error
}

// ReconciliationService replays trade history through the holding ledger and
// compares the derived positions against the stored holdings rows. It is a
// read-only check; discrepancies are reported, never repaired automatically.
type ReconciliationService struct {
	portfolioRepository repositories.PortfolioRepository
	tradeRepository     repositories.TradeRepository
	holdingRepository   repositories.HoldingRepository
}

func NewReconciliationService(
	portfolioRepository repositories.PortfolioRepository,
	tradeRepository repositories.TradeRepository,
	holdingRepository repositories.HoldingRepository,
) *ReconciliationService {
	return &ReconciliationService{
		portfolioRepository: portfolioRepository,
		tradeRepository:     tradeRepository,
		holdingRepository:   holdingRepository,
	}
}

func (s *ReconciliationService) ReconcilePortfolio(ctx context.Context, portfolioID int) ([]Discrepancy, error) {
	portfolio, err := s.portfolioRepository.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, &NotFoundError{Resource: "portfolio", ID: portfolioID}
	}

	trades, err := s.tradeRepository.GetByPortfolioID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	var discrepancies []Discrepancy

	// Replay settlement order per instrument; DB ids are synthetic below,
	// only quantity and average cost matter for the comparison.
	derived := make(map[int]*models.Holding)
	for i := range trades {
		trade := &trades[i]
		outcome, err := ApplyTrade(trade, derived[trade.InstrumentID])
		if err != nil {
			discrepancies = append(discrepancies, Discrepancy{
				PortfolioID:  portfolioID,
				InstrumentID: trade.InstrumentID,
				Detail:       fmt.Sprintf("trade %d does not replay: %v", trade.ID, err),
			})
			continue
		}
		if outcome.Delete != nil {
			delete(derived, trade.InstrumentID)
			continue
		}
		derived[trade.InstrumentID] = outcome.Upsert
	}

	stored, err := s.holdingRepository.GetByPortfolioID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	for i := range stored {
		h := &stored[i]
		seen[h.InstrumentID] = true
		d, ok := derived[h.InstrumentID]
		if !ok {
			discrepancies = append(discrepancies, Discrepancy{
				PortfolioID:  portfolioID,
				InstrumentID: h.InstrumentID,
				Detail:       fmt.Sprintf("stored holding qty %s has no trades backing it", h.Quantity),
			})
			continue
		}
		if !h.Quantity.Equal(d.Quantity) {
			discrepancies = append(discrepancies, Discrepancy{
				PortfolioID:  portfolioID,
				InstrumentID: h.InstrumentID,
				Detail:       fmt.Sprintf("quantity mismatch: stored %s, derived %s", h.Quantity, d.Quantity),
			})
		}
		if !h.AverageCost.Equal(d.AverageCost) {
			discrepancies = append(discrepancies, Discrepancy{
				PortfolioID:  portfolioID,
				InstrumentID: h.InstrumentID,
				Detail:       fmt.Sprintf("average cost mismatch: stored %s, derived %s", h.AverageCost, d.AverageCost),
			})
		}
	}

	for instrumentID, d := range derived {
		if !seen[instrumentID] {
			discrepancies = append(discrepancies, Discrepancy{
				PortfolioID:  portfolioID,
				InstrumentID: instrumentID,
				Detail:       fmt.Sprintf("derived position qty %s has no stored holding", d.Quantity),
			})
		}
	}

	return discrepancies, nil
}

// ReconcileAll checks every portfolio and logs discrepancies; scheduled as a
// nightly job.
func (s *ReconciliationService) ReconcileAll(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)

	portfolios, err := s.portfolioRepository.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, p := range portfolios {
		discrepancies, err := s.ReconcilePortfolio(ctx, p.ID)
		if err != nil {
			logger.WithError(err).WithField("portfolio_id", p.ID).Error("reconciliation failed")
			continue
		}
		for _, d := range discrepancies {
			logger.WithFields(logrus.Fields{
				"portfolio_id":  d.PortfolioID,
				"instrument_id": d.InstrumentID,
			}).Warn(d.Detail)
		}
	}
	return nil
}
