// File: internal/notification/model.go
package notification

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType defines the type of notification.
type NotificationType string

const (
	RequestApproved  NotificationType = "request_approved"
	RequestRejected  NotificationType = "request_rejected"
	PropertyAssigned NotificationType = "property_assigned"
)

// Notification represents a user notification. Rows are immutable
// except for the read flag; the purchase request itself remains the
// durable record after a notification is dismissed or purged.
type Notification struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_user_status" json:"user_id"`
	Type              NotificationType `gorm:"type:varchar(100);not null" json:"type"`
	Message           string           `gorm:"type:text;not null" json:"message"`
	RelatedRequestID  *uuid.UUID       `gorm:"type:uuid" json:"related_request_id,omitempty"`
	RelatedPropertyID *uuid.UUID       `gorm:"type:uuid" json:"related_property_id,omitempty"`
	IsRead            bool             `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
	CreatedAt         time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_notification_user_status" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}

// CreateNotificationInput is what producing modules hand to the service.
type CreateNotificationInput struct {
	UserID            uuid.UUID
	Type              NotificationType
	Message           string
	RelatedRequestID  *uuid.UUID
	RelatedPropertyID *uuid.UUID
}
