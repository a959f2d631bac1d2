package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/avoronova/recipehub-backend/internal/app/service"
	"github.com/avoronova/recipehub-backend/pkg/logger"
)

// PopularRecipesScheduler refreshes the popular-recipes cache on a fixed
// schedule so listing requests never pay for the ranking query.
type PopularRecipesScheduler struct {
	cron           *cron.Cron
	popularService service.PopularService
}

func NewPopularRecipesScheduler(popularService service.PopularService) *PopularRecipesScheduler {
	return &PopularRecipesScheduler{
		cron:           cron.New(),
		popularService: popularService,
	}
}

// Start registers the hourly refresh job and runs one refresh immediately so
// the cache is warm from startup.
func (s *PopularRecipesScheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.popularService.Refresh(context.Background()); err != nil {
			logger.Error("Scheduled popular recipes refresh failed", err)
			return
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for popular recipes refresh", err)
		return err
	}

	if err := s.popularService.Refresh(context.Background()); err != nil {
		logger.Warn("Initial popular recipes refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.cron.Start()
	logger.Info("Popular recipes scheduler started (hourly)", nil)

	return nil
}

// Stop halts the scheduler.
func (s *PopularRecipesScheduler) Stop() {
	logger.Info("Stopping popular recipes scheduler...", nil)
	s.cron.Stop()
	logger.Info("Popular recipes scheduler stopped", nil)
}
