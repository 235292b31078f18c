package availability

import (
	"context"
	"fmt"

	"casaluna/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartPoller refreshes all configured feeds immediately and then on a fixed
// schedule. The returned cron can be stopped on shutdown.
func StartPoller(ix *Index, everyMinutes int) *cron.Cron {
	logger := utils.GetLogger()
	if everyMinutes <= 0 {
		everyMinutes = 30
	}

	ix.RefreshFeeds(context.Background())

	c := cron.New()
	spec := fmt.Sprintf("@every %dm", everyMinutes)
	if _, err := c.AddFunc(spec, func() {
		ix.RefreshFeeds(context.Background())
	}); err != nil {
		logger.Error("failed to schedule feed poller", zap.Error(err))
		return c
	}
	c.Start()
	logger.Info("feed poller started", zap.Int("intervalMinutes", everyMinutes))
	return c
}
