package app

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// startCron schedules the publication counter reconciliation job. Counters
// are advisory caches; this pass heals any drift left by racing link/unlink
// requests.
func (a *App) startCron() {
	if a.cfg.ReconcileSchedule == "" {
		a.logger.Info("counter reconciliation job disabled")
		return
	}

	c := cron.New()
	_, err := c.AddFunc(a.cfg.ReconcileSchedule, func() {
		result, err := a.linkage.ReconcileAll()
		if err != nil {
			a.logger.Error("counter reconciliation failed", zap.Error(err))
			return
		}
		a.logger.Info("counter reconciliation finished",
			zap.Int("scholars", result.Scholars),
			zap.Int("repaired", result.Repaired),
		)
	})
	if err != nil {
		a.logger.Error("invalid reconcile schedule, job disabled",
			zap.String("schedule", a.cfg.ReconcileSchedule),
			zap.Error(err),
		)
		return
	}

	c.Start()
	a.cron = c
}
