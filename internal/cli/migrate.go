package cli

import (
	"fmt"
	"strings"

	"github.com/epeers/secmaster/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCheck bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the store tables",
	Long: `Apply the schema. Every statement is idempotent, so migrate is safe to
run against an existing database. With --check nothing is changed and the
command fails if any table is missing.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateCheck, "check", false,
		"only report missing tables")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := database.New(ctx, cfg.PGURL, cfg.MaxConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if !migrateCheck {
		if err := database.Migrate(ctx, db.Pool); err != nil {
			return err
		}
	}

	missing, err := database.MissingTables(ctx, db.Pool)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tables: %s", strings.Join(missing, ", "))
	}
	log.Infof("All %d tables present", len(database.Tables))
	return nil
}
