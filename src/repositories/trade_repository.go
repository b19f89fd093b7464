package repositories

import (
	"context"
	"errors"

	"tradetracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TradeRepository interface {
	GetByID(ctx context.Context, id int) (*models.Trade, error)
	// GetByPortfolioID returns the portfolio's trades in settlement order.
	GetByPortfolioID(ctx context.Context, portfolioID int) ([]models.Trade, error)
	Create(ctx context.Context, t *models.Trade, tx pgx.Tx) error
}

type tradeRepo struct {
	db *pgxpool.Pool
}

func NewTradeRepository(db *pgxpool.Pool) TradeRepository {
	return &tradeRepo{db: db}
}

func (r *tradeRepo) GetByID(ctx context.Context, id int) (*models.Trade, error) {
	var t models.Trade
	err := r.db.QueryRow(ctx,
		`SELECT id, portfolio_id, instrument_id, trade_type, quantity, price, fee, traded_at, created_at
		FROM trades WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.PortfolioID, &t.InstrumentID, &t.TradeType, &t.Quantity, &t.Price, &t.Fee, &t.TradedAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tradeRepo) GetByPortfolioID(ctx context.Context, portfolioID int) ([]models.Trade, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, portfolio_id, instrument_id, trade_type, quantity, price, fee, traded_at, created_at
		FROM trades
		WHERE portfolio_id = $1
		ORDER BY traded_at, id`,
		portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.ID, &t.PortfolioID, &t.InstrumentID, &t.TradeType, &t.Quantity, &t.Price, &t.Fee, &t.TradedAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (r *tradeRepo) Create(ctx context.Context, t *models.Trade, tx pgx.Tx) error {
	query := `
		INSERT INTO trades (portfolio_id, instrument_id, trade_type, quantity, price, fee, traded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	var err error
	if tx == nil {
		// If no transaction is provided, create a new one
		tx, err = r.db.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback(ctx)
			}
		}()

		err = tx.QueryRow(ctx, query,
			t.PortfolioID, t.InstrumentID, t.TradeType, t.Quantity, t.Price, t.Fee, t.TradedAt,
		).Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	return tx.QueryRow(ctx, query,
		t.PortfolioID, t.InstrumentID, t.TradeType, t.Quantity, t.Price, t.Fee, t.TradedAt,
	).Scan(&t.ID, &t.CreatedAt)
}
