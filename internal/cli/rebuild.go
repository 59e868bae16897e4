package cli

import (
	"github.com/epeers/secmaster/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild-prices-log",
	Short: "Recompute prices_log from security_prices",
	Long: `Drop and recreate prices_log with one row per security holding the
earliest and latest bar date. update_dt and check_dt are reset. The run is
recorded in update_log.`,
	RunE: runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, wc := services.NewWarningContext(cmd.Context())
	resp, err := a.coverage.Rebuild(ctx)
	if err != nil {
		return err
	}
	for _, w := range wc.GetWarnings() {
		log.Warnf("%s: %s", w.Code, w.Message)
	}
	cmd.Printf("prices_log rebuilt: %d rows (update_log id %d)\n", resp.Rows, resp.UpdateLogID)
	return nil
}
