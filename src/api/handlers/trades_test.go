package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tradetracker/src/models"
	"tradetracker/src/schemas"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTradeRepository struct {
	trade *models.Trade
}

func (s *stubTradeRepository) GetByID(context.Context, int) (*models.Trade, error) {
	return s.trade, nil
}

func (s *stubTradeRepository) GetByPortfolioID(context.Context, int) ([]models.Trade, error) {
	return nil, nil
}

func (s *stubTradeRepository) Create(context.Context, *models.Trade, pgx.Tx) error {
	return nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPostTradeInvalidBody(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/trades", strings.NewReader("not-json"))
	rec := httptest.NewRecorder()

	h.PostTrade(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTradeByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		h := newTestHandler()

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/trades/abc", nil), "id", "abc")
		rec := httptest.NewRecorder()

		h.GetTradeByID(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown trade", func(t *testing.T) {
		h := newTestHandler()
		h.TradeRepository = &stubTradeRepository{}

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/trades/7", nil), "id", "7")
		rec := httptest.NewRecorder()

		h.GetTradeByID(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("existing trade", func(t *testing.T) {
		h := newTestHandler()
		h.TradeRepository = &stubTradeRepository{trade: &models.Trade{
			ID:           7,
			PortfolioID:  1,
			InstrumentID: 2,
			TradeType:    models.TradeTypeBuy,
			Quantity:     decimal.NewFromInt(500),
			Price:        decimal.NewFromInt(1500),
			Fee:          decimal.Zero,
			TradedAt:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		}}

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/trades/7", nil), "id", "7")
		rec := httptest.NewRecorder()

		h.GetTradeByID(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp schemas.TradeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 7, resp.ID)
		assert.Equal(t, models.TradeTypeBuy, resp.TradeType)
		assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(500)))
	})
}
