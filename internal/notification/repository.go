// File: internal/notification/repository.go
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estatehub_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for notification data operations.
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]Notification, *common.Pagination, error)
	FindByID(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) (*Notification, error)
	MarkAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM notification repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new notification.
func (r *gormRepository) Create(ctx context.Context, notification *Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByUserID retrieves a paginated list of notifications for a user,
// newest first. unreadOnly restricts the list to the active surface.
func (r *gormRepository) GetByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]Notification, *common.Pagination, error) {
	query := r.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("counting notifications for user %s failed: %w", userID, err)
	}

	pagination := common.NewPagination(total, page, pageSize)

	offset := (page - 1) * pageSize
	if page <= 0 {
		offset = 0
	}

	var notifications []Notification
	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, nil, fmt.Errorf("fetching notifications for user %s failed: %w", userID, err)
	}
	return notifications, pagination, nil
}

// FindByID retrieves a notification by ID, scoped to its owner.
func (r *gormRepository) FindByID(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) (*Notification, error) {
	var notification Notification
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Notification not found.")
		}
		return nil, fmt.Errorf("failed to find notification %s for user %s: %w", notificationID, userID, err)
	}
	return &notification, nil
}

// MarkAsRead marks a notification as read for its owner. Marking an
// already-read notification is a no-op, not an error.
func (r *gormRepository) MarkAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	if _, err := r.FindByID(ctx, notificationID, userID); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification %s as read for user %s: %w", notificationID, userID, result.Error)
	}
	return nil
}

// MarkAllAsRead marks every unread notification for a user as read and
// returns how many were updated.
func (r *gormRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read for user %s: %w", userID, result.Error)
	}
	return result.RowsAffected, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *gormRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for user %s: %w", userID, err)
	}
	return count, nil
}

// DeleteReadBefore purges read notifications created before the cutoff.
// Used by the retention job; unread notifications are never purged.
func (r *gormRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge read notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}
