package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/epeers/secmaster/internal/models"
)

type runWarningsKey struct{}

// WarningCollector gathers the non-fatal problems of one request: dropped or
// duplicate bars, skipped CSV rows, securities with no coverage and rebuild
// resets. Ingestion workers add to it concurrently.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []models.Warning
}

// NewWarningContext attaches an empty collector to ctx
func NewWarningContext(ctx context.Context) (context.Context, *WarningCollector) {
	wc := &WarningCollector{}
	return context.WithValue(ctx, runWarningsKey{}, wc), wc
}

// AddWarning records w on the collector in ctx. Without one it is dropped.
func AddWarning(ctx context.Context, w models.Warning) {
	wc, ok := ctx.Value(runWarningsKey{}).(*WarningCollector)
	if !ok || wc == nil {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.warnings = append(wc.warnings, w)
}

// Warnf is AddWarning with a formatted message
func Warnf(ctx context.Context, code models.WarningCode, format string, args ...any) {
	AddWarning(ctx, models.Warning{Code: code, Message: fmt.Sprintf(format, args...)})
}

// GetWarnings returns a snapshot of the warnings in the order they were added.
func (wc *WarningCollector) GetWarnings() []models.Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return slices.Clone(wc.warnings)
}
