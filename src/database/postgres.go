package database

import (
	"context"
	"fmt"

	"tradetracker/src/config"
	aws_handler "tradetracker/src/utils/aws"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupDB opens the postgres connection pool. When the config names a
// Secrets Manager secret, the database password is resolved from AWS before
// building the DSN.
func SetupDB(cfg *config.Config) (*pgxpool.Pool, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = 5
	poolCfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// DSN builds the postgres connection string from the config.
func DSN(cfg *config.Config) (string, error) {
	if cfg.Databases.SQL.ConnectionString != "" {
		return cfg.Databases.SQL.ConnectionString, nil
	}

	password := cfg.Databases.SQL.Password
	if cfg.Databases.SQL.SecretName != "" {
		awsHandler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
		if err != nil {
			return "", err
		}
		password, err = awsHandler.SecretManager.GetSecretValue(cfg.Databases.SQL.SecretName)
		if err != nil {
			return "", fmt.Errorf("failed to resolve database secret: %w", err)
		}
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Databases.SQL.Host,
		cfg.Databases.SQL.Username,
		password,
		cfg.Databases.SQL.Database,
		cfg.Databases.SQL.Port), nil
}
