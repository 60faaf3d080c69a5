package bot

import (
	"context"
	"time"

	"seyobot/service"

	log "github.com/sirupsen/logrus"
)

// StartYouTubePollWorker starts a background worker that sweeps tracked
// channels for new uploads. Returns a cleanup function to stop the worker
// gracefully.
func (b *Bot) StartYouTubePollWorker(ctx context.Context, notifier service.YouTubeNotifierService, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})

	sweep := func() {
		if err := notifier.CheckAll(context.Background()); err != nil {
			log.Errorf("YouTube poll sweep failed: %v", err)
		}
	}

	go func() {
		log.Infof("YouTube poll worker started (interval %s)", interval)

		// Run immediately on startup
		sweep()

		for {
			select {
			case <-ctx.Done():
				log.Info("YouTube poll worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("YouTube poll worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}
