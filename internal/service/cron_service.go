package service

import (
	"context"
	"time"

	"github.com/dom/diary-service/internal/auth"
	"github.com/dom/diary-service/internal/config"
	"github.com/dom/diary-service/internal/logger"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

// CronService runs the periodic maintenance jobs.
type CronService struct {
	cfg    *config.Config
	c      *cron.Cron
	stats  *StatsService
	purger auth.RevocationPurger
	now    func() time.Time
}

// NewCronService creates a CronService. purger may be nil when the
// revocation backend expires entries on its own.
func NewCronService(cfg *config.Config, stats *StatsService, purger auth.RevocationPurger) *CronService {
	return &CronService{
		cfg:    cfg,
		c:      cron.New(),
		stats:  stats,
		purger: purger,
		now:    time.Now,
	}
}

// Start registers the configured jobs and starts the scheduler.
func (cs *CronService) Start() {
	logger.Info("Initializing CronService")

	if cs.cfg.StatsRollupSchedule != "" {
		cs.addScheduledJob("Emotion stats ROLLUP job", cs.statsRollupJob, cs.cfg.StatsRollupSchedule)
	}
	if cs.cfg.RevokedTokenPurgeSchedule != "" && cs.purger != nil {
		cs.addScheduledJob("Revoked tokens PURGE job", cs.revokedTokenPurgeJob, cs.cfg.RevokedTokenPurgeSchedule)
	}

	cs.c.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (cs *CronService) Stop() {
	<-cs.c.Stop().Done()
}

// Entries reports how many jobs are scheduled.
func (cs *CronService) Entries() int {
	return len(cs.c.Entries())
}

func (cs *CronService) addScheduledJob(name string, job func(), schedule string) {
	_, err := cs.c.AddFunc(schedule, func() {
		logger.Info("STARTED SCHEDULED JOB", logger.Fields{"job": name})
		job()
		logger.Info("COMPLETED SCHEDULED JOB", logger.Fields{"job": name})
	})
	if err != nil {
		logger.Error("FAILED TO QUEUE SCHEDULED JOB", logger.Fields{
			"job":   name,
			"error": err.Error(),
		})
		return
	}
	logger.Info("QUEUED SCHEDULED job", logger.Fields{
		"job":      name,
		"schedule": schedule,
	})
}

func (cs *CronService) statsRollupJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	rows, err := cs.stats.Rollup(ctx, cs.now())
	if err != nil {
		logger.Error("Emotion stats ROLLUP job", logger.Fields{"error": err.Error()})
		return
	}
	logger.Info("Emotion stats ROLLUP job", logger.Fields{"rows_upserted": rows})
}

func (cs *CronService) revokedTokenPurgeJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	purged, err := cs.purger.PurgeExpired(ctx, cs.now())
	if err != nil {
		logger.Error("Revoked tokens PURGE job", logger.Fields{"error": err.Error()})
		return
	}
	logger.Info("Revoked tokens PURGE job", logger.Fields{"rows_deleted": purged})
}
