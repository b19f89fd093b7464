package repositories_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tradetracker/src/config"
	"tradetracker/src/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

var testDB *pgxpool.Pool

// setupTestDB connects to the TESTING database, skipping the test when no
// database is reachable so the pure-logic suites still run standalone.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testDB != nil {
		return testDB
	}

	root, err := moduleRoot()
	if err != nil {
		t.Skipf("skipping database tests: %v", err)
	}

	cfg, err := config.LoadConfig(filepath.Join(root, "settings"), "TESTING")
	if err != nil {
		t.Skipf("skipping database tests, no TESTING config: %v", err)
	}

	pool, err := database.SetupDB(cfg)
	if err != nil {
		t.Skipf("skipping database tests, database unavailable: %v", err)
	}

	truncateTables(t, pool)

	testDB = pool
	return pool
}

func moduleRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return "", os.ErrNotExist
		}
		wd = parent
	}
}

func truncateTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE holdings, trades, fee_rules, portfolios, instruments, broker_accounts RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}
