package repositories_test

import (
	"context"
	"testing"

	"tradetracker/src/models"
	"tradetracker/src/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeRuleRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewFeeRuleRepository(db)

	ctx := context.Background()
	defer truncateTables(t, db)

	account := &models.BrokerAccount{Name: "Fee Broker"}
	require.NoError(t, repositories.NewBrokerAccountRepository(db).Create(ctx, account, nil))

	t.Run("Create and GetByKey", func(t *testing.T) {
		rule := &models.FeeRule{
			BrokerAccountID: account.ID,
			InstrumentType:  "STOCK",
			TradeType:       models.TradeTypeBuy,
			Percentage:      decimal.NewFromFloat(0.0015),
			MinFee:          decimal.NewFromInt(2000),
		}
		require.NoError(t, repo.Create(ctx, rule, nil))
		assert.NotZero(t, rule.ID)

		got, err := repo.GetByKey(ctx, account.ID, "STOCK", models.TradeTypeBuy)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Percentage.Equal(decimal.NewFromFloat(0.0015)))
		assert.True(t, got.MinFee.Equal(decimal.NewFromInt(2000)))
	})

	t.Run("GetByKey returns nil for an unconfigured triple", func(t *testing.T) {
		got, err := repo.GetByKey(ctx, account.ID, "STOCK", models.TradeTypeSell)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("GetByBrokerAccountID", func(t *testing.T) {
		rules, err := repo.GetByBrokerAccountID(ctx, account.ID)
		require.NoError(t, err)
		assert.Len(t, rules, 1)
	})
}
