package database

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/epeers/secmaster/internal/testutil"
)

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestSchemaContainsPricesLogDDL(t *testing.T) {
	if !strings.Contains(squash(SchemaSQL()), squash(CreatePricesLogSQL)) {
		t.Fatal("create_tables.sql and CreatePricesLogSQL have drifted apart")
	}
}

func TestSchemaCreatesEveryTable(t *testing.T) {
	schema := SchemaSQL()
	for _, table := range Tables {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("schema does not create table %s", table)
		}
	}
}

func TestSchemaPricePrecision(t *testing.T) {
	schema := squash(SchemaSQL())
	for _, col := range []string{"open", "high", "low", "close", "volume"} {
		if !strings.Contains(schema, col+" NUMERIC(20, 6)") {
			t.Errorf("raw column %s should be NUMERIC(20, 6)", col)
		}
		if !strings.Contains(schema, "adj_"+col+" NUMERIC(100, 20)") {
			t.Errorf("adjusted column adj_%s should be NUMERIC(100, 20)", col)
		}
	}
	if strings.Contains(strings.ToUpper(schema), "DOUBLE PRECISION") || strings.Contains(strings.ToUpper(schema), " REAL") {
		t.Error("schema must not use binary floating point columns")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	base := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, base, "schema")
	defer testutil.DropTestDB(t, base, testutil.GetDBNameFromConnStr(connStr))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := New(ctx, connStr, 2)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	missing, err := MissingTables(ctx, db.Pool)
	if err != nil {
		t.Fatalf("MissingTables failed: %v", err)
	}
	if len(missing) != len(Tables) {
		t.Fatalf("expected all %d tables missing on a fresh database, got %v", len(Tables), missing)
	}

	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db.Pool); err != nil {
			t.Fatalf("migrate pass %d failed: %v", i+1, err)
		}
	}

	missing, err = MissingTables(ctx, db.Pool)
	if err != nil {
		t.Fatalf("MissingTables failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing tables after migrate, got %v", missing)
	}
}
