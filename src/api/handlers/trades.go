package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tradetracker/src/schemas"
	"tradetracker/src/utils"

	"github.com/go-chi/chi/v5"
)

// PostTrade settles a trade: it opens the transaction the settlement runs in
// and commits only when the trade record and the holding mutation both
// succeeded.
func (h *Handler) PostTrade(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid trade request body"))
		return
	}
	if req.TradedAt.IsZero() {
		req.TradedAt = time.Now()
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	trade, err := h.SettlementService.SettleTrade(ctx, tx,
		req.PortfolioID, req.InstrumentID, req.TradeType, req.Quantity, req.Price, req.TradedAt)
	if err != nil {
		_ = tx.Rollback(ctx)
		h.HandleErrors(w, err)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, schemas.NewTradeResponse(trade), http.StatusCreated)
}

func (h *Handler) GetTradeByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid trade id"))
		return
	}

	trade, err := h.TradeRepository.GetByID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	if trade == nil {
		h.HandleErrors(w, utils.NotFound("trade not found"))
		return
	}

	h.respond(w, r, schemas.NewTradeResponse(trade), http.StatusOK)
}
