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
	"github.com/shopspring/decimal"
)

func (h *Handler) GetBrokerAccountFeeRules(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	brokerAccountID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid broker account id"))
		return
	}

	rules, err := h.FeeRuleRepository.GetByBrokerAccountID(ctx, brokerAccountID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, rules, http.StatusOK)
}

func (h *Handler) CreateFeeRule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.CreateFeeRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid fee rule request body"))
		return
	}
	if req.TradeType != models.TradeTypeBuy && req.TradeType != models.TradeTypeSell {
		h.HandleErrors(w, utils.BadRequest("trade type must be BUY or SELL"))
		return
	}
	if req.Percentage.IsNegative() || req.Percentage.GreaterThan(decimal.NewFromInt(1)) {
		h.HandleErrors(w, utils.BadRequest("fee percentage must be between 0 and 1"))
		return
	}
	if req.MinFee.IsNegative() {
		h.HandleErrors(w, utils.BadRequest("minimum fee must not be negative"))
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

	rule := &models.FeeRule{
		BrokerAccountID: req.BrokerAccountID,
		InstrumentType:  req.InstrumentType,
		TradeType:       req.TradeType,
		Percentage:      req.Percentage,
		MinFee:          req.MinFee,
	}
	if err := h.FeeRuleRepository.Create(ctx, rule, nil); err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, rule, http.StatusCreated)
}
