package repositories

import (
	"context"
	"errors"

	"tradetracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeeRuleRepository interface {
	// GetByKey returns the rule for the exact (broker account, instrument
	// type, trade type) triple, or nil when no rule is configured.
	GetByKey(ctx context.Context, brokerAccountID int, instrumentType string, tradeType models.TradeType) (*models.FeeRule, error)
	GetByBrokerAccountID(ctx context.Context, brokerAccountID int) ([]models.FeeRule, error)
	Create(ctx context.Context, f *models.FeeRule, tx pgx.Tx) error
}

type feeRuleRepo struct {
	db *pgxpool.Pool
}

func NewFeeRuleRepository(db *pgxpool.Pool) FeeRuleRepository {
	return &feeRuleRepo{db: db}
}

func (r *feeRuleRepo) GetByKey(ctx context.Context, brokerAccountID int, instrumentType string, tradeType models.TradeType) (*models.FeeRule, error) {
	var f models.FeeRule
	err := r.db.QueryRow(ctx,
		`SELECT id, broker_account_id, instrument_type, trade_type, percentage, min_fee, created_at
		FROM fee_rules
		WHERE broker_account_id = $1 AND instrument_type = $2 AND trade_type = $3`,
		brokerAccountID, instrumentType, tradeType,
	).Scan(&f.ID, &f.BrokerAccountID, &f.InstrumentType, &f.TradeType, &f.Percentage, &f.MinFee, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *feeRuleRepo) GetByBrokerAccountID(ctx context.Context, brokerAccountID int) ([]models.FeeRule, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, broker_account_id, instrument_type, trade_type, percentage, min_fee, created_at
		FROM fee_rules WHERE broker_account_id = $1 ORDER BY id`,
		brokerAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.FeeRule
	for rows.Next() {
		var f models.FeeRule
		if err := rows.Scan(&f.ID, &f.BrokerAccountID, &f.InstrumentType, &f.TradeType, &f.Percentage, &f.MinFee, &f.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, f)
	}
	return rules, rows.Err()
}

func (r *feeRuleRepo) Create(ctx context.Context, f *models.FeeRule, tx pgx.Tx) error {
	query := `
		INSERT INTO fee_rules (broker_account_id, instrument_type, trade_type, percentage, min_fee)
		VALUES ($1, $2, $3, $4, $5)
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
			f.BrokerAccountID, f.InstrumentType, f.TradeType, f.Percentage, f.MinFee,
		).Scan(&f.ID, &f.CreatedAt)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	return tx.QueryRow(ctx, query,
		f.BrokerAccountID, f.InstrumentType, f.TradeType, f.Percentage, f.MinFee,
	).Scan(&f.ID, &f.CreatedAt)
}
