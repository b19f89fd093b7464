package repositories

import (
	"context"
	"errors"

	"tradetracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InstrumentRepository interface {
	GetAll(ctx context.Context) ([]models.Instrument, error)
	GetByID(ctx context.Context, id int) (*models.Instrument, error)
	GetBySymbol(ctx context.Context, symbol string) (*models.Instrument, error)
	Create(ctx context.Context, i *models.Instrument, tx pgx.Tx) error
}

type instrumentRepo struct {
	db *pgxpool.Pool
}

func NewInstrumentRepository(db *pgxpool.Pool) InstrumentRepository {
	return &instrumentRepo{db: db}
}

func (r *instrumentRepo) GetAll(ctx context.Context) ([]models.Instrument, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, symbol, name, instrument_type, currency, created_at
		FROM instruments ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instruments []models.Instrument
	for rows.Next() {
		var i models.Instrument
		if err := rows.Scan(&i.ID, &i.Symbol, &i.Name, &i.InstrumentType, &i.Currency, &i.CreatedAt); err != nil {
			return nil, err
		}
		instruments = append(instruments, i)
	}
	return instruments, rows.Err()
}

func (r *instrumentRepo) GetByID(ctx context.Context, id int) (*models.Instrument, error) {
	return r.getOne(ctx,
		`SELECT id, symbol, name, instrument_type, currency, created_at
		FROM instruments WHERE id = $1`, id)
}

func (r *instrumentRepo) GetBySymbol(ctx context.Context, symbol string) (*models.Instrument, error) {
	return r.getOne(ctx,
		`SELECT id, symbol, name, instrument_type, currency, created_at
		FROM instruments WHERE symbol = $1`, symbol)
}

func (r *instrumentRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.Instrument, error) {
	var i models.Instrument
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&i.ID, &i.Symbol, &i.Name, &i.InstrumentType, &i.Currency, &i.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *instrumentRepo) Create(ctx context.Context, i *models.Instrument, tx pgx.Tx) error {
	query := `
		INSERT INTO instruments (symbol, name, instrument_type, currency)
		VALUES ($1, $2, $3, $4)
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

		err = tx.QueryRow(ctx, query, i.Symbol, i.Name, i.InstrumentType, i.Currency).
			Scan(&i.ID, &i.CreatedAt)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	return tx.QueryRow(ctx, query, i.Symbol, i.Name, i.InstrumentType, i.Currency).
		Scan(&i.ID, &i.CreatedAt)
}
