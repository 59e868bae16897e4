package repository

import (
	"context"
	"testing"
	"time"

	"github.com/epeers/secmaster/internal/database"
	"github.com/epeers/secmaster/internal/models"
	"github.com/epeers/secmaster/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// getTestPool returns a pool on a freshly migrated throwaway database.
func getTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	base := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, base, "repo")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, connStr, 4)
	if err != nil {
		testutil.DropTestDB(t, base, testutil.GetDBNameFromConnStr(connStr))
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		testutil.DropTestDB(t, base, testutil.GetDBNameFromConnStr(connStr))
	})

	if err := database.Migrate(ctx, db.Pool); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db.Pool
}

func day(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func strPtr(s string) *string { return &s }

func bar(secid, date, closePx string) models.SecurityPrice {
	return models.SecurityPrice{
		SecID:     secid,
		Date:      day(date),
		Frequency: models.FrequencyDaily,
		Close:     dec(closePx),
	}
}

func seedSecurity(t *testing.T, pool *pgxpool.Pool, secid, ticker string) {
	t.Helper()
	repo := NewSecurityRepository(pool)
	if _, err := repo.Upsert(context.Background(), &models.Security{SecID: secid, Ticker: strPtr(ticker)}); err != nil {
		t.Fatalf("failed to seed security %s: %v", secid, err)
	}
}
