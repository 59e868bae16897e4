package services

import (
	"time"

	"github.com/epeers/secmaster/internal/models"
	log "github.com/sirupsen/logrus"
)

func TrackTime(funcName string, start time.Time) {
	elapsed := time.Since(start)
	log.Debugf("%s took %d ms", funcName, elapsed.Milliseconds())
}

// RunTimer measures one update run against a table. Instants are UTC at
// microsecond precision, the resolution update_log stores.
type RunTimer struct {
	table string
	start time.Time
	now   func() time.Time
}

// StartRun starts timing a run against table
func StartRun(table string) *RunTimer {
	return startRunWithClock(table, time.Now)
}

func startRunWithClock(table string, now func() time.Time) *RunTimer {
	return &RunTimer{
		table: table,
		start: now().UTC().Truncate(time.Microsecond),
		now:   now,
	}
}

// Start returns when the run began
func (rt *RunTimer) Start() time.Time {
	return rt.start
}

// Finish stops the timer and returns the update_log row for the run.
// Counts are left nil for the caller to fill in.
func (rt *RunTimer) Finish() *models.UpdateRun {
	end := rt.now().UTC().Truncate(time.Microsecond)
	if end.Before(rt.start) {
		end = rt.start
	}
	return &models.UpdateRun{
		TableName:      rt.table,
		Start:          rt.start,
		End:            end,
		ElapsedSeconds: models.ElapsedSeconds(rt.start, end),
	}
}

func int32Ptr(n int) *int32 {
	v := int32(n)
	return &v
}
