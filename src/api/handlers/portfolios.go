package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tradetracker/src/models"
	"tradetracker/src/schemas"
	"tradetracker/src/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetAllPortfolios(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	portfolios, err := h.PortfolioRepository.GetAll(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, portfolios, http.StatusOK)
}

func (h *Handler) GetPortfolioByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := h.portfolioID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	portfolio, err := h.PortfolioRepository.GetByID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	if portfolio == nil {
		h.HandleErrors(w, utils.NotFound("portfolio not found"))
		return
	}

	h.respond(w, r, portfolio, http.StatusOK)
}

func (h *Handler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid portfolio request body"))
		return
	}
	if req.Name == "" {
		h.HandleErrors(w, utils.BadRequest("portfolio name is required"))
		return
	}

	account, err := h.BrokerAccountRepository.GetByID(ctx, req.BrokerAccountID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	if account == nil {
		h.HandleErrors(w, utils.NotFound("broker account not found"))
		return
	}

	portfolio := &models.Portfolio{Name: req.Name, BrokerAccountID: req.BrokerAccountID}
	if err := h.PortfolioRepository.Create(ctx, portfolio, nil); err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, portfolio, http.StatusCreated)
}

func (h *Handler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := h.portfolioID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	if err := h.PortfolioRepository.Delete(ctx, id, nil); err != nil {
		h.HandleErrors(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetPortfolioHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := h.portfolioID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	portfolio, err := h.PortfolioRepository.GetByID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	if portfolio == nil {
		h.HandleErrors(w, utils.NotFound("portfolio not found"))
		return
	}

	holdings, err := h.HoldingRepository.GetByPortfolioID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, schemas.NewHoldingResponses(holdings), http.StatusOK)
}

func (h *Handler) GetPortfolioTrades(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := h.portfolioID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	trades, err := h.TradeRepository.GetByPortfolioID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	responses := make([]*schemas.TradeResponse, 0, len(trades))
	for i := range trades {
		responses = append(responses, schemas.NewTradeResponse(&trades[i]))
	}
	h.respond(w, r, responses, http.StatusOK)
}

func (h *Handler) ReconcilePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	id, err := h.portfolioID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	discrepancies, err := h.ReconciliationService.ReconcilePortfolio(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, discrepancies, http.StatusOK)
}

func (h *Handler) portfolioID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, utils.BadRequest("invalid portfolio id")
	}
	return id, nil
}
