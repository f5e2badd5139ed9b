// File: internal/notification/service.go
package notification

import (
	"context"
	"strings"
	"time"

	"estatehub_backend/internal/common"
	"estatehub_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for notification business logic.
type Service interface {
	Create(ctx context.Context, input CreateNotificationInput) (*Notification, error)
	GetForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	PurgeRead(ctx context.Context) (int64, error)
}

// ServiceImplementation implements the notification Service interface.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) Service {
	return &ServiceImplementation{repo: repo, cfg: cfg, logger: logger}
}

// Create records a notification for a user.
func (s *ServiceImplementation) Create(ctx context.Context, input CreateNotificationInput) (*Notification, error) {
	if input.UserID == uuid.Nil {
		return nil, common.NewBadRequestError("Notification recipient is required.")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, common.NewBadRequestError("Notification message cannot be empty.")
	}

	notification := &Notification{
		ID:                uuid.New(),
		UserID:            input.UserID,
		Type:              input.Type,
		Message:           input.Message,
		RelatedRequestID:  input.RelatedRequestID,
		RelatedPropertyID: input.RelatedPropertyID,
		CreatedAt:         time.Now(),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	s.logger.Debug("Notification created",
		zap.String("notificationID", notification.ID.String()),
		zap.String("userID", input.UserID.String()),
		zap.String("type", string(input.Type)),
	)
	return notification, nil
}

// GetForUser lists a user's notifications, optionally restricted to the
// unread surface.
func (s *ServiceImplementation) GetForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]Notification, *common.Pagination, error) {
	return s.repo.GetByUserID(ctx, userID, unreadOnly, page, pageSize)
}

// MarkAsRead dismisses a notification from the unread surface. The
// underlying request history is untouched; repeating the call is safe.
func (s *ServiceImplementation) MarkAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

// MarkAllAsRead dismisses every unread notification for the user.
func (s *ServiceImplementation) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Debug("Marked all notifications read",
			zap.String("userID", userID.String()), zap.Int64("count", count))
	}
	return count, nil
}

// CountUnread returns the user's unread badge count.
func (s *ServiceImplementation) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// PurgeRead deletes read notifications older than the configured
// retention window. Invoked by the scheduled cleanup job.
func (s *ServiceImplementation) PurgeRead(ctx context.Context) (int64, error) {
	retentionDays := s.cfg.NotificationRetentionDays
	if retentionDays <= 0 {
		retentionDays = 90
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	purged, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("Purged read notifications",
			zap.Int64("count", purged), zap.Time("cutoff", cutoff))
	}
	return purged, nil
}
