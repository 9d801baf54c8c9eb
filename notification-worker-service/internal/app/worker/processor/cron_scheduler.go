package processor

import (
	"context"

	"signalidea/notification-worker-service/internal/app/worker/service"
	"signalidea/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler запускает истечение вакансий по расписанию
type CronScheduler struct {
	cron       *cron.Cron
	listingSvc service.ListingExpiryServiceInterface
}

func NewCronScheduler(listingSvc service.ListingExpiryServiceInterface) *CronScheduler {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	return &CronScheduler{
		cron:       c,
		listingSvc: listingSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.run(ctx, "Cron job failed: job listings were not expired")
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	// первый прогон сразу, не дожидаясь расписания
	s.run(ctx, "Initial job listing expiry failed")

	return nil
}

func (s *CronScheduler) run(ctx context.Context, failureMsg string) {
	if err := s.listingSvc.ExpireListings(ctx); err != nil {
		logger.Error().Err(err).Msg(failureMsg)
	}
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
