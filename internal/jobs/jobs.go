package jobs

import (
	"context"
	"time"

	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	sweepSchedule      = "@every 1m"
	cacheStatsSchedule = "@every 30s"
	keyRateSchedule    = "0 */6 * * *"
	keyRateTimeout     = 30 * time.Second
)

// CallerTracker is the per-caller limiter state swept of idle callers
type CallerTracker interface {
	Sweep(idle time.Duration) int
	Len() int
}

// Sized reports a number of entries
type Sized interface {
	Len() int
}

// KeyRateFetcher refreshes the reference rate
type KeyRateFetcher interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

// Scheduler runs housekeeping in the background
type Scheduler struct {
	cron    *cron.Cron
	callers CallerTracker
	cache   Sized
	rates   KeyRateFetcher
	idle    time.Duration
	log     *logrus.Logger
}

// NewScheduler creates a scheduler. A nil rates skips key rate refreshes.
func NewScheduler(callers CallerTracker, cache Sized, rates KeyRateFetcher, idle time.Duration, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		callers: callers,
		cache:   cache,
		rates:   rates,
		idle:    idle,
		log:     log,
	}
}

// Start registers the jobs and starts the cron loop. The key rate is also fetched once immediately.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(sweepSchedule, s.sweepCallers); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(cacheStatsSchedule, s.publishCacheStats); err != nil {
		return err
	}
	if s.rates != nil {
		if _, err := s.cron.AddFunc(keyRateSchedule, s.refreshKeyRate); err != nil {
			return err
		}
		go s.refreshKeyRate()
	}

	s.cron.Start()
	s.log.WithField("jobs", len(s.cron.Entries())).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) sweepCallers() {
	removed := s.callers.Sweep(s.idle)
	tracked := s.callers.Len()
	metrics.SetTrackedCallers(tracked)
	if removed > 0 {
		s.log.WithFields(logrus.Fields{"removed": removed, "tracked": tracked}).Debug("Swept idle callers")
	}
}

func (s *Scheduler) publishCacheStats() {
	metrics.SetCacheEntries(s.cache.Len())
}

func (s *Scheduler) refreshKeyRate() {
	ctx, cancel := context.WithTimeout(context.Background(), keyRateTimeout)
	defer cancel()

	if _, err := s.rates.GetKeyRate(ctx); err != nil {
		s.log.Warnf("Scheduled key rate refresh failed: %v", err)
	}
}
