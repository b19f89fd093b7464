package repositories

import (
	"context"
	"errors"

	"tradetracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HoldingRepository interface {
	GetByPortfolioID(ctx context.Context, portfolioID int) ([]models.Holding, error)
	// GetByPortfolioAndInstrument returns the pair's holding, or nil when the
	// portfolio has no position in the instrument.
	GetByPortfolioAndInstrument(ctx context.Context, portfolioID, instrumentID int) (*models.Holding, error)
	// GetByPortfolioAndInstrumentForUpdate locks the holding row for the rest
	// of the given transaction, serializing concurrent trades on the pair.
	GetByPortfolioAndInstrumentForUpdate(ctx context.Context, portfolioID, instrumentID int, tx pgx.Tx) (*models.Holding, error)
	Upsert(ctx context.Context, h *models.Holding, tx pgx.Tx) error
	Delete(ctx context.Context, h *models.Holding, tx pgx.Tx) error
}

type holdingRepo struct {
	db *pgxpool.Pool
}

func NewHoldingRepository(db *pgxpool.Pool) HoldingRepository {
	return &holdingRepo{db: db}
}

const holdingColumns = `id, portfolio_id, instrument_id, quantity, average_cost, updated_at`

func (r *holdingRepo) GetByPortfolioID(ctx context.Context, portfolioID int) ([]models.Holding, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+holdingColumns+`
		FROM holdings
		WHERE portfolio_id = $1
		ORDER BY instrument_id`,
		portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []models.Holding
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ID, &h.PortfolioID, &h.InstrumentID, &h.Quantity, &h.AverageCost, &h.UpdatedAt); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (r *holdingRepo) GetByPortfolioAndInstrument(ctx context.Context, portfolioID, instrumentID int) (*models.Holding, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+holdingColumns+`
		FROM holdings
		WHERE portfolio_id = $1 AND instrument_id = $2`,
		portfolioID, instrumentID)
	return scanHolding(row)
}

func (r *holdingRepo) GetByPortfolioAndInstrumentForUpdate(ctx context.Context, portfolioID, instrumentID int, tx pgx.Tx) (*models.Holding, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+holdingColumns+`
		FROM holdings
		WHERE portfolio_id = $1 AND instrument_id = $2
		FOR UPDATE`,
		portfolioID, instrumentID)
	return scanHolding(row)
}

func scanHolding(row pgx.Row) (*models.Holding, error) {
	var h models.Holding
	err := row.Scan(&h.ID, &h.PortfolioID, &h.InstrumentID, &h.Quantity, &h.AverageCost, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *holdingRepo) Upsert(ctx context.Context, h *models.Holding, tx pgx.Tx) error {
	query := `
		INSERT INTO holdings (portfolio_id, instrument_id, quantity, average_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (portfolio_id, instrument_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			average_cost = EXCLUDED.average_cost,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

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
			h.PortfolioID, h.InstrumentID, h.Quantity, h.AverageCost, h.UpdatedAt,
		).Scan(&h.ID)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	return tx.QueryRow(ctx, query,
		h.PortfolioID, h.InstrumentID, h.Quantity, h.AverageCost, h.UpdatedAt,
	).Scan(&h.ID)
}

func (r *holdingRepo) Delete(ctx context.Context, h *models.Holding, tx pgx.Tx) error {
	query := `DELETE FROM holdings WHERE id = $1`

	if tx == nil {
		_, err := r.db.Exec(ctx, query, h.ID)
		return err
	}
	_, err := tx.Exec(ctx, query, h.ID)
	return err
}
