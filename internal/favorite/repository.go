// File: internal/favorite/repository.go
package favorite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for favorite data operations.
type Repository interface {
	Add(ctx context.Context, userID, propertyID uuid.UUID) error
	Remove(ctx context.Context, userID, propertyID uuid.UUID) error
	Exists(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
	ListPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM favorite repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Add inserts a membership row. Inserting an existing pair is a no-op,
// which makes the add side of the toggle idempotent.
func (r *gormRepository) Add(ctx context.Context, userID, propertyID uuid.UUID) error {
	favorite := &Favorite{
		ID:         uuid.New(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "property_id"}},
			DoNothing: true,
		}).
		Create(favorite).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove deletes a membership row. Removing a pair that is not present
// is a no-op.
func (r *gormRepository) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// Exists reports current membership straight from the database.
func (r *gormRepository) Exists(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Favorite{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// ListPropertyIDs returns the user's saved property IDs, newest first.
func (r *gormRepository) ListPropertyIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("property_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return ids, nil
}
