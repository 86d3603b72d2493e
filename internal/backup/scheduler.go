package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/emiliopalmerini/mhabit/internal/logger"
)

// Scheduler runs snapshots on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a scheduler evaluating standard five-field cron
// expressions in loc.
func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
	}
}

// ScheduleSnapshots registers s to run on a cron schedule, e.g. "0 3 * * *".
func (sc *Scheduler) ScheduleSnapshots(schedule string, s *Snapshotter) (cron.EntryID, error) {
	id, err := sc.cron.AddFunc(schedule, func() {
		if _, err := s.Snapshot(context.Background()); err != nil {
			logger.Error("scheduled snapshot failed", "error", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	return id, nil
}

// Next returns the next run time of the entry.
func (sc *Scheduler) Next(id cron.EntryID) time.Time {
	return sc.cron.Entry(id).Next
}

func (sc *Scheduler) Start() {
	sc.cron.Start()
}

// Stop waits for running jobs to finish.
func (sc *Scheduler) Stop() {
	ctx := sc.cron.Stop()
	<-ctx.Done()
}
