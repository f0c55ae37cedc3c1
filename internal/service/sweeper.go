package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/coffee-shop-auth/internal/metrics"
)

// Sweeper periodically deletes expired password reset records. A failed
// run is logged and the next tick tries again; overlapping runs are skipped.
type Sweeper struct {
	resets   PasswordResetStore
	interval time.Duration
	timeout  time.Duration
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
	now      func() time.Time
	cron     *cron.Cron
}

type SweeperOption func(*Sweeper)

// WithSweepClock replaces the time source used for the cutoff.
func WithSweepClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) { s.now = now }
}

func NewSweeper(resets PasswordResetStore, interval time.Duration, m *metrics.Metrics, log logrus.FieldLogger, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		resets:   resets,
		interval: interval,
		timeout:  30 * time.Second,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	cronLog := cron.PrintfLogger(log)
	s.cron = cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	s.cron.Schedule(cron.Every(interval), cron.FuncJob(s.tick))
	return s
}

// Start launches the schedule in its own goroutine.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.log.WithField("interval", s.interval).Info("password reset sweeper started")
}

// Stop halts the schedule. The returned context is done once a running
// sweep has finished.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Sweeper) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, _ = s.RunOnce(ctx)
}

// RunOnce deletes every record with expires_at strictly before now.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC()
	n, err := s.resets.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		s.metrics.SweepErrorsTotal.Inc()
		s.log.WithError(err).Error("password reset sweep failed")
		return 0, err
	}
	s.metrics.SweepDeletedTotal.Add(float64(n))
	if n > 0 {
		s.log.WithField("deleted", n).Info("expired password reset codes removed")
	}
	return n, nil
}
