// File: internal/jobs/notification_cleanup.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"estatehub_backend/internal/config"
	"estatehub_backend/internal/notification"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// NotificationCleanupJob periodically purges read notifications past the
// retention window. Purchase requests keep the durable history, so the
// purge only trims the notification surface.
type NotificationCleanupJob struct {
	notificationService notification.Service
	logger              *zap.Logger
	cfg                 *config.Config
	cronScheduler       *cron.Cron
}

// NewNotificationCleanupJob creates a new NotificationCleanupJob.
func NewNotificationCleanupJob(
	notificationService notification.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *NotificationCleanupJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &NotificationCleanupJob{
		notificationService: notificationService,
		logger:              logger.Named("NotificationCleanupJob"),
		cfg:                 cfg,
		cronScheduler:       scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *NotificationCleanupJob) SetupAndStart() error {
	jobSpec := j.cfg.NotificationCleanupSchedule
	if jobSpec == "" {
		j.logger.Warn("Notification cleanup schedule not defined (NOTIFICATION_CLEANUP_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule notification cleanup job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Notification cleanup job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *NotificationCleanupJob) runJob() {
	j.logger.Info("Starting notification cleanup run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purged, err := j.notificationService.PurgeRead(ctx)
	if err != nil {
		j.logger.Error("Notification cleanup run failed", zap.Error(err))
	} else {
		j.logger.Info("Notification cleanup run completed", zap.Int64("notifications_purged", purged))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *NotificationCleanupJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping notification cleanup scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Notification cleanup scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Notification cleanup scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger adapts a zap.Logger to the cron.Logger interface.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
