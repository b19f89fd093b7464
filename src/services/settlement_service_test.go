package services_test

import (
	"context"
	"testing"
	"time"

	"tradetracker/src/models"
	"tradetracker/src/services"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx satisfies pgx.Tx so the settlement precondition (an open
// transaction) can be met without a database.
type fakeTx struct{}

func (fakeTx) Begin(context.Context) (pgx.Tx, error)  { return nil, nil }
func (fakeTx) Commit(context.Context) error           { return nil }
func (fakeTx) Rollback(context.Context) error         { return nil }
func (fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (fakeTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (fakeTx) Conn() *pgx.Conn                                         { return nil }

type mockPortfolioRepository struct {
	portfolios map[int]*models.Portfolio
}

func (m *mockPortfolioRepository) GetAll(context.Context) ([]models.Portfolio, error) {
	var all []models.Portfolio
	for _, p := range m.portfolios {
		all = append(all, *p)
	}
	return all, nil
}

func (m *mockPortfolioRepository) GetByID(_ context.Context, id int) (*models.Portfolio, error) {
	return m.portfolios[id], nil
}

func (m *mockPortfolioRepository) Create(_ context.Context, p *models.Portfolio, _ pgx.Tx) error {
	if m.portfolios == nil {
		m.portfolios = make(map[int]*models.Portfolio)
	}
	p.ID = len(m.portfolios) + 1
	m.portfolios[p.ID] = p
	return nil
}

func (m *mockPortfolioRepository) Delete(_ context.Context, id int, _ pgx.Tx) error {
	delete(m.portfolios, id)
	return nil
}

type mockInstrumentRepository struct {
	instruments map[int]*models.Instrument
}

func (m *mockInstrumentRepository) GetAll(context.Context) ([]models.Instrument, error) {
	return nil, nil
}

func (m *mockInstrumentRepository) GetByID(_ context.Context, id int) (*models.Instrument, error) {
	return m.instruments[id], nil
}

func (m *mockInstrumentRepository) GetBySymbol(context.Context, string) (*models.Instrument, error) {
	return nil, nil
}

func (m *mockInstrumentRepository) Create(_ context.Context, i *models.Instrument, _ pgx.Tx) error {
	if m.instruments == nil {
		m.instruments = make(map[int]*models.Instrument)
	}
	i.ID = len(m.instruments) + 1
	m.instruments[i.ID] = i
	return nil
}

type mockTradeRepository struct {
	created []*models.Trade
}

func (m *mockTradeRepository) GetByID(context.Context, int) (*models.Trade, error) { return nil, nil }

func (m *mockTradeRepository) GetByPortfolioID(_ context.Context, portfolioID int) ([]models.Trade, error) {
	var trades []models.Trade
	for _, t := range m.created {
		if t.PortfolioID == portfolioID {
			trades = append(trades, *t)
		}
	}
	return trades, nil
}

func (m *mockTradeRepository) Create(_ context.Context, t *models.Trade, _ pgx.Tx) error {
	t.ID = len(m.created) + 1
	m.created = append(m.created, t)
	return nil
}

type mockHoldingRepository struct {
	holding  *models.Holding
	upserted *models.Holding
	deleted  *models.Holding
}

func (m *mockHoldingRepository) GetByPortfolioID(context.Context, int) ([]models.Holding, error) {
	if m.holding == nil {
		return nil, nil
	}
	return []models.Holding{*m.holding}, nil
}

func (m *mockHoldingRepository) GetByPortfolioAndInstrument(context.Context, int, int) (*models.Holding, error) {
	return m.holding, nil
}

func (m *mockHoldingRepository) GetByPortfolioAndInstrumentForUpdate(_ context.Context, _, _ int, _ pgx.Tx) (*models.Holding, error) {
	return m.holding, nil
}

func (m *mockHoldingRepository) Upsert(_ context.Context, h *models.Holding, _ pgx.Tx) error {
	m.upserted = h
	m.holding = h
	return nil
}

func (m *mockHoldingRepository) Delete(_ context.Context, h *models.Holding, _ pgx.Tx) error {
	m.deleted = h
	m.holding = nil
	return nil
}

type settlementFixture struct {
	service     *services.SettlementService
	portfolios  *mockPortfolioRepository
	instruments *mockInstrumentRepository
	trades      *mockTradeRepository
	holdings    *mockHoldingRepository
	feeRules    *mockFeeRuleRepository
}

func newSettlementFixture() *settlementFixture {
	f := &settlementFixture{
		portfolios: &mockPortfolioRepository{portfolios: map[int]*models.Portfolio{
			1: {ID: 1, Name: "Growth", BrokerAccountID: 9},
		}},
		instruments: &mockInstrumentRepository{instruments: map[int]*models.Instrument{
			2: {ID: 2, Symbol: "BBCA", InstrumentType: "STOCK", Currency: "IDR"},
		}},
		trades:   &mockTradeRepository{},
		holdings: &mockHoldingRepository{},
		feeRules: &mockFeeRuleRepository{},
	}
	feeService := services.NewFeeService(f.feeRules, nil, 0)
	f.service = services.NewSettlementService(f.portfolios, f.instruments, f.trades, f.holdings, feeService)
	return f
}

func TestSettleTradePreconditions(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	tradedAt := time.Now()

	t.Run("nil transaction fails fast", func(t *testing.T) {
		_, err := f.service.SettleTrade(ctx, nil, 1, 2, models.TradeTypeBuy, dec("10"), dec("100"), tradedAt)
		assert.ErrorIs(t, err, services.ErrNoTransaction)
	})

	t.Run("invalid trade type", func(t *testing.T) {
		_, err := f.service.SettleTrade(ctx, fakeTx{}, 1, 2, "SHORT", dec("10"), dec("100"), tradedAt)
		assert.ErrorIs(t, err, services.ErrInvalidTradeType)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		_, err := f.service.SettleTrade(ctx, fakeTx{}, 1, 2, models.TradeTypeBuy, dec("0"), dec("100"), tradedAt)
		assert.ErrorIs(t, err, services.ErrNonPositiveQty)
	})

	t.Run("non positive price", func(t *testing.T) {
		_, err := f.service.SettleTrade(ctx, fakeTx{}, 1, 2, models.TradeTypeBuy, dec("10"), dec("-1"), tradedAt)
		assert.ErrorIs(t, err, services.ErrNonPositivePrice)
	})

	t.Run("unknown portfolio", func(t *testing.T) {
		_, err := f.service.SettleTrade(ctx, fakeTx{}, 99, 2, models.TradeTypeBuy, dec("10"), dec("100"), tradedAt)
		var notFound *services.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "portfolio", notFound.Resource)
		assert.Equal(t, 99, notFound.ID)
	})

	t.Run("unknown instrument", func(t *testing.T) {
		_, err := f.service.SettleTrade(ctx, fakeTx{}, 1, 99, models.TradeTypeBuy, dec("10"), dec("100"), tradedAt)
		var notFound *services.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "instrument", notFound.Resource)
	})
}

func TestSettleTradeBuy(t *testing.T) {
	ctx := context.Background()
	tradedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("buy persists the trade and the holding", func(t *testing.T) {
		f := newSettlementFixture()

		trade, err := f.service.SettleTrade(ctx, fakeTx{}, 1, 2, models.TradeTypeBuy, dec("500"), dec("1500"), tradedAt)
		require.NoError(t, err)
		require.NotNil(t, trade)
		assert.NotZero(t, trade.ID)
		assert.True(t, trade.Fee.IsZero(), "no fee rule means zero fee")

		require.NotNil(t, f.holdings.upserted)
		assert.True(t, f.holdings.upserted.Quantity.Equal(dec("500")))
		assert.True(t, f.holdings.upserted.AverageCost.Equal(dec("1500")))
	})

	t.Run("fee rule from the portfolio's broker account is applied", func(t *testing.T) {
		f := newSettlementFixture()
		require.NoError(t, f.feeRules.Create(ctx, &models.FeeRule{
			BrokerAccountID: 9,
			InstrumentType:  "STOCK",
			TradeType:       models.TradeTypeBuy,
			Percentage:      dec("0.0015"),
			MinFee:          dec("2000"),
		}, nil))

		trade, err := f.service.SettleTrade(ctx, fakeTx{}, 1, 2, models.TradeTypeBuy, dec("100"), dec("8000"), tradedAt)
		require.NoError(t, err)
		// 100*8000*0.0015 = 1200 < minFee 2000
		assert.True(t, trade.Fee.Equal(dec("2000")), "fee: %s", trade.Fee)

		// Fee capitalized: (100*8000 + 2000) / 100 = 8020
		require.NotNil(t, f.holdings.upserted)
		assert.True(t, f.holdings.upserted.AverageCost.Equal(dec("8020")), "average cost: %s", f.holdings.upserted.AverageCost)
	})
}

func TestSettleTradeSell(t *testing.T) {
	ctx := context.Background()
	tradedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("sell to zero deletes the holding", func(t *testing.T) {
		f := newSettlementFixture()
		f.holdings.holding = &models.Holding{
			ID: 10, PortfolioID: 1, InstrumentID: 2,
			Quantity: dec("2000"), AverageCost: dec("1800"),
		}

		trade, err := f.service.SettleTrade(ctx, fakeTx{}, 1, 2, models.TradeTypeSell, dec("2000"), dec("2100"), tradedAt)
		require.NoError(t, err)
		require.NotNil(t, trade)

		require.NotNil(t, f.holdings.deleted)
		assert.Equal(t, 10, f.holdings.deleted.ID)
		assert.Nil(t, f.holdings.upserted)
	})

	t.Run("oversell aborts settlement", func(t *testing.T) {
		f := newSettlementFixture()
		f.holdings.holding = &models.Holding{
			ID: 10, PortfolioID: 1, InstrumentID: 2,
			Quantity: dec("2000"), AverageCost: dec("1800"),
		}

		_, err := f.service.SettleTrade(ctx, fakeTx{}, 1, 2, models.TradeTypeSell, dec("2010"), dec("2100"), tradedAt)
		var insufficient *services.InsufficientHoldingsError
		require.ErrorAs(t, err, &insufficient)
		assert.True(t, insufficient.Attempted.Equal(dec("2010")))
		assert.True(t, insufficient.Available.Equal(dec("2000")))

		// The holding row is untouched; the caller rolls back the trade insert.
		assert.Nil(t, f.holdings.upserted)
		assert.Nil(t, f.holdings.deleted)
		assert.True(t, f.holdings.holding.Quantity.Equal(dec("2000")))
	})
}

func TestSettleTradeQuantityNeverNegative(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	tradedAt := time.Now()

	steps := []struct {
		tradeType models.TradeType
		quantity  string
		wantErr   bool
	}{
		{models.TradeTypeSell, "1", true},
		{models.TradeTypeBuy, "10", false},
		{models.TradeTypeSell, "4", false},
		{models.TradeTypeSell, "7", true},
		{models.TradeTypeSell, "6", false},
		{models.TradeTypeSell, "1", true},
	}

	for _, step := range steps {
		_, err := f.service.SettleTrade(ctx, fakeTx{}, 1, 2, step.tradeType, dec(step.quantity), dec("100"), tradedAt)
		if step.wantErr {
			var insufficient *services.InsufficientHoldingsError
			require.ErrorAs(t, err, &insufficient)
		} else {
			require.NoError(t, err)
		}
		if f.holdings.holding != nil {
			assert.False(t, f.holdings.holding.Quantity.IsNegative())
			assert.False(t, f.holdings.holding.Quantity.IsZero(), "zero-quantity holdings must not persist")
		}
	}
	assert.Nil(t, f.holdings.holding, "position should be flat after the sequence")
}
