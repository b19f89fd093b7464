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

const instrumentsCacheTTL = 5 * time.Minute

func (h *Handler) GetAllInstruments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if cached, ok := h.instrumentsCache.Get(time.Now()); ok {
		h.respond(w, r, cached, http.StatusOK)
		return
	}

	instruments, err := h.InstrumentRepository.GetAll(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.instrumentsCache.Set(instruments, instrumentsCacheTTL)

	h.respond(w, r, instruments, http.StatusOK)
}

func (h *Handler) GetInstrumentByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid instrument id"))
		return
	}

	instrument, err := h.InstrumentRepository.GetByID(ctx, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	if instrument == nil {
		h.HandleErrors(w, utils.NotFound("instrument not found"))
		return
	}

	h.respond(w, r, instrument, http.StatusOK)
}

func (h *Handler) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.CreateInstrumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest("invalid instrument request body"))
		return
	}
	if req.Symbol == "" || req.InstrumentType == "" {
		h.HandleErrors(w, utils.BadRequest("instrument symbol and type are required"))
		return
	}

	instrument := &models.Instrument{
		Symbol:         req.Symbol,
		Name:           req.Name,
		InstrumentType: req.InstrumentType,
		Currency:       req.Currency,
	}
	if err := h.InstrumentRepository.Create(ctx, instrument, nil); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.instrumentsCache.Clear()

	h.respond(w, r, instrument, http.StatusCreated)
}
