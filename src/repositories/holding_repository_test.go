package repositories_test

import (
	"context"
	"testing"
	"time"

	"tradetracker/src/models"
	"tradetracker/src/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFixtures(t *testing.T, ctx context.Context) (*models.Portfolio, *models.Instrument) {
	t.Helper()
	db := setupTestDB(t)

	account := &models.BrokerAccount{Name: "Test Broker"}
	require.NoError(t, repositories.NewBrokerAccountRepository(db).Create(ctx, account, nil))

	portfolio := &models.Portfolio{Name: "Test Portfolio", BrokerAccountID: account.ID}
	require.NoError(t, repositories.NewPortfolioRepository(db).Create(ctx, portfolio, nil))

	instrument := &models.Instrument{Symbol: "BBCA", Name: "Bank Central Asia", InstrumentType: "STOCK", Currency: "IDR"}
	require.NoError(t, repositories.NewInstrumentRepository(db).Create(ctx, instrument, nil))

	return portfolio, instrument
}

func TestHoldingRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewHoldingRepository(db)

	ctx := context.Background()
	defer truncateTables(t, db)

	portfolio, instrument := createFixtures(t, ctx)

	t.Run("Upsert creates and updates the pair's row", func(t *testing.T) {
		holding := &models.Holding{
			PortfolioID:  portfolio.ID,
			InstrumentID: instrument.ID,
			Quantity:     decimal.NewFromInt(500),
			AverageCost:  decimal.NewFromInt(1500),
			UpdatedAt:    time.Now(),
		}
		require.NoError(t, repo.Upsert(ctx, holding, nil))
		assert.NotZero(t, holding.ID)

		// Same pair again updates in place.
		updated := &models.Holding{
			PortfolioID:  portfolio.ID,
			InstrumentID: instrument.ID,
			Quantity:     decimal.NewFromInt(2500),
			AverageCost:  decimal.NewFromFloat(1740),
			UpdatedAt:    time.Now(),
		}
		require.NoError(t, repo.Upsert(ctx, updated, nil))
		assert.Equal(t, holding.ID, updated.ID)

		got, err := repo.GetByPortfolioAndInstrument(ctx, portfolio.ID, instrument.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Quantity.Equal(decimal.NewFromInt(2500)))
		assert.True(t, got.AverageCost.Equal(decimal.NewFromInt(1740)))
	})

	t.Run("GetByPortfolioAndInstrument returns nil when absent", func(t *testing.T) {
		got, err := repo.GetByPortfolioAndInstrument(ctx, portfolio.ID, 999999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ForUpdate lock inside a transaction", func(t *testing.T) {
		tx, err := db.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback(ctx) }()

		got, err := repo.GetByPortfolioAndInstrumentForUpdate(ctx, portfolio.ID, instrument.ID, tx)
		require.NoError(t, err)
		require.NotNil(t, got)

		require.NoError(t, tx.Commit(ctx))
	})

	t.Run("GetByPortfolioID and Delete", func(t *testing.T) {
		holdings, err := repo.GetByPortfolioID(ctx, portfolio.ID)
		require.NoError(t, err)
		require.Len(t, holdings, 1)

		require.NoError(t, repo.Delete(ctx, &holdings[0], nil))

		holdings, err = repo.GetByPortfolioID(ctx, portfolio.ID)
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})
}
