package scheduler

import (
	"context"

	"github.com/accountability-buddy/api/internal/jobs"
	"github.com/accountability-buddy/api/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartBackgroundJobs schedules the periodic cleanup jobs.
func StartBackgroundJobs(sweeper *jobs.InvitationSweeper, notificationService *services.NotificationService) {
	c := cron.New()

	// Orphaned invitation cleanup
	c.AddFunc("@hourly", func() {
		removed, err := sweeper.Run(context.Background())
		if err != nil {
			logrus.WithError(err).Error("Invitation sweep failed")
			return
		}
		if removed > 0 {
			logrus.WithField("count", removed).Info("Invitation sweep removed orphans")
		}
	})

	// Expired notification cleanup
	c.AddFunc("0 0 * * *", func() {
		removed, err := notificationService.DeleteExpiredNotifications(context.Background())
		if err != nil {
			logrus.WithError(err).Error("Notification expiry sweep failed")
			return
		}
		if removed > 0 {
			logrus.WithField("count", removed).Info("Expired notifications removed")
		}
	})

	c.Start()
}
