// File: internal/favorite/model.go
package favorite

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is a membership row linking a user to a saved property. The
// pair is unique; toggling is implemented as insert-or-delete against
// that constraint.
type Favorite struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_property" json:"user_id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_property" json:"property_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for the Favorite model.
func (Favorite) TableName() string {
	return "favorites"
}

// ToggleRequest identifies the property whose membership is flipped.
type ToggleRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
}

// ToggleResponse reports the membership state after the toggle.
type ToggleResponse struct {
	PropertyID uuid.UUID `json:"property_id"`
	IsFavorite bool      `json:"is_favorite"`
}
