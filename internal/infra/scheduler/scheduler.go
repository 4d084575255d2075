package scheduler

import (
	"context"
	"time"

	"github.com/aqsa08/training-mvp-backend/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// dispatchTimeout bounds a single daily run. Well above what a full cohort
// sweep needs, well below the gap to the next trigger.
const dispatchTimeout = 10 * time.Minute

type DispatchScheduler struct {
	cronEngine        *cron.Cron
	dispatchService   app.DispatchService
	logger            *logrus.Logger
	cronSpecDailySend string
}

func NewDispatchScheduler(
	dispatchService app.DispatchService,
	logger *logrus.Logger,
	cronSpecDailySend string, // e.g. "0 9 * * *" (9:00 AM daily)
) *DispatchScheduler {
	return &DispatchScheduler{
		cronEngine:        cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		dispatchService:   dispatchService,
		logger:            logger,
		cronSpecDailySend: cronSpecDailySend,
	}
}

func (s *DispatchScheduler) Start() error {
	s.logger.Info("Starting dispatch scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecDailySend, func() {
		s.logger.Info("Cron job triggered for daily lesson dispatch.")
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		result, err := s.dispatchService.Run(ctx)
		if err != nil {
			s.logger.Errorf("Daily dispatch run failed: %v", err)
			return
		}
		s.logger.Infof("Daily dispatch run complete: attempted=%d sent=%d", result.Attempted, result.Sent)
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("Dispatch scheduler started with spec %q.", s.cronSpecDailySend)
	return nil
}

func (s *DispatchScheduler) Stop() {
	s.logger.Info("Stopping dispatch scheduler...")
	ctx := s.cronEngine.Stop() // Stops triggering new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Dispatch scheduler gracefully stopped.")
}
