package repositories

import (
	"context"
	"errors"

	"tradetracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BrokerAccountRepository interface {
	GetAll(ctx context.Context) ([]models.BrokerAccount, error)
	GetByID(ctx context.Context, id int) (*models.BrokerAccount, error)
	Create(ctx context.Context, a *models.BrokerAccount, tx pgx.Tx) error
}

type brokerAccountRepo struct {
	db *pgxpool.Pool
}

func NewBrokerAccountRepository(db *pgxpool.Pool) BrokerAccountRepository {
	return &brokerAccountRepo{db: db}
}

func (r *brokerAccountRepo) GetAll(ctx context.Context) ([]models.BrokerAccount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM broker_accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.BrokerAccount
	for rows.Next() {
		var a models.BrokerAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *brokerAccountRepo) GetByID(ctx context.Context, id int) (*models.BrokerAccount, error) {
	var a models.BrokerAccount
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM broker_accounts WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *brokerAccountRepo) Create(ctx context.Context, a *models.BrokerAccount, tx pgx.Tx) error {
	query := `
		INSERT INTO broker_accounts (name)
		VALUES ($1)
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

		err = tx.QueryRow(ctx, query, a.Name).Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	return tx.QueryRow(ctx, query, a.Name).Scan(&a.ID, &a.CreatedAt)
}
