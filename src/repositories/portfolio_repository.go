package repositories

import (
	"context"
	"errors"

	"tradetracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PortfolioRepository interface {
	GetAll(ctx context.Context) ([]models.Portfolio, error)
	GetByID(ctx context.Context, id int) (*models.Portfolio, error)
	Create(ctx context.Context, p *models.Portfolio, tx pgx.Tx) error
	Delete(ctx context.Context, id int, tx pgx.Tx) error
}

type portfolioRepo struct {
	db *pgxpool.Pool
}

func NewPortfolioRepository(db *pgxpool.Pool) PortfolioRepository {
	return &portfolioRepo{db: db}
}

func (r *portfolioRepo) GetAll(ctx context.Context) ([]models.Portfolio, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, broker_account_id, created_at FROM portfolios ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var portfolios []models.Portfolio
	for rows.Next() {
		var p models.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.BrokerAccountID, &p.CreatedAt); err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

func (r *portfolioRepo) GetByID(ctx context.Context, id int) (*models.Portfolio, error) {
	var p models.Portfolio
	err := r.db.QueryRow(ctx,
		`SELECT id, name, broker_account_id, created_at FROM portfolios WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.BrokerAccountID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *portfolioRepo) Create(ctx context.Context, p *models.Portfolio, tx pgx.Tx) error {
	query := `
		INSERT INTO portfolios (name, broker_account_id)
		VALUES ($1, $2)
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

		err = tx.QueryRow(ctx, query, p.Name, p.BrokerAccountID).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	return tx.QueryRow(ctx, query, p.Name, p.BrokerAccountID).Scan(&p.ID, &p.CreatedAt)
}

func (r *portfolioRepo) Delete(ctx context.Context, id int, tx pgx.Tx) error {
	query := `DELETE FROM portfolios WHERE id = $1`

	if tx == nil {
		_, err := r.db.Exec(ctx, query, id)
		return err
	}
	_, err := tx.Exec(ctx, query, id)
	return err
}
