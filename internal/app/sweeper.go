package app

import (
	"context"
	"time"

	"github.com/estradax/learnway/internal/service"
	"go.uber.org/zap"
)

// Sweeper runs the periodic reminder pass over stale pending requests.
type Sweeper struct {
	lifecycle   *service.LifecycleService
	interval    time.Duration
	reminderAge time.Duration
	logger      *zap.Logger
	stopChan    chan struct{}
}

func NewSweeper(lifecycle *service.LifecycleService, interval, reminderAge time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		lifecycle:   lifecycle,
		interval:    interval,
		reminderAge: reminderAge,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting pending request sweeper",
		zap.Duration("interval", s.interval),
		zap.Duration("reminder_age", s.reminderAge),
	)

	go s.run(ctx)
}

// Stop terminates the sweep loop.
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping pending request sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// First pass right at startup.
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Sweep loop stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Sweep loop cancelled")
			return
		}
	}
}

// sweep logs one reminder line per tutor with stale pending requests. It
// never mutates state; notification delivery is out of scope.
func (s *Sweeper) sweep(ctx context.Context) {
	backlog, err := s.lifecycle.StalePendingBacklog(ctx, s.reminderAge)
	if err != nil {
		s.logger.Error("Pending request sweep failed", zap.Error(err))
		return
	}

	for _, b := range backlog {
		s.logger.Warn("Tutor has stale pending requests",
			zap.Int64("tutor_id", b.TutorID),
			zap.Int("count", b.Count),
		)
	}

	s.logger.Info("Pending request sweep finished", zap.Int("tutors_with_backlog", len(backlog)))
}
