package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

//go:embed create_tables.sql
var createTablesSQL string

// Table names
const (
	TableSecurities     = "securities"
	TableExchanges      = "exchanges"
	TableSecurityPrices = "security_prices"
	TablePricesLog      = "prices_log"
	TableUpdateLog      = "update_log"
)

// Tables lists every table the schema creates, in dependency order.
var Tables = []string{
	TableSecurities,
	TableExchanges,
	TableSecurityPrices,
	TablePricesLog,
	TableUpdateLog,
}

// CreatePricesLogSQL is the prices_log definition. It must stay identical to
// the block in create_tables.sql since the rebuild recreates the table from it.
const CreatePricesLogSQL = `CREATE TABLE IF NOT EXISTS prices_log (
    secid     TEXT PRIMARY KEY REFERENCES securities (secid) ON DELETE CASCADE,
    min_date  DATE,
    max_date  DATE,
    update_dt TIMESTAMPTZ,
    check_dt  TIMESTAMPTZ
);`

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SchemaSQL returns the full DDL script.
func SchemaSQL() string {
	return createTablesSQL
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	// Simple protocol lets the multi-statement script (including the plpgsql
	// bodies) go through in a single round trip.
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Conn().PgConn().Exec(ctx, createTablesSQL).ReadAll(); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Info("Schema applied")
	return nil
}

// TableExists reports whether a table is visible on the current search_path.
func TableExists(ctx context.Context, q Querier, table string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists, nil
}

// MissingTables returns the schema tables that do not exist yet.
func MissingTables(ctx context.Context, q Querier) ([]string, error) {
	var missing []string
	for _, t := range Tables {
		ok, err := TableExists(ctx, q, t)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, t)
		}
	}
	return missing, nil
}
