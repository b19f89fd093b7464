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

func (h *Handler) GetAllBrokerAccounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	accounts, err := h.BrokerAccountRepository.GetAll(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, accounts, http.StatusOK)
}

func (h *Handler) GetBrokerAccountByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid broker account id"))
		return
	}

	account, err := h.BrokerAccountRepository.GetByID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	if account == nil {
		h.HandleErrors(w, utils.NotFound("broker account not found"))
		return
	}

	h.respond(w, r, account, http.StatusOK)
}

func (h *Handler) CreateBrokerAccount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.CreateBrokerAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid broker account request body"))
		return
	}
	if req.Name == "" {
		h.HandleErrors(w, utils.BadRequest("broker account name is required"))
		return
	}

	account := &models.BrokerAccount{Name: req.Name}
	if err := h.BrokerAccountRepository.Create(ctx, account, nil); err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, account, http.StatusCreated)
}
