// File: internal/setting/repository.go
package setting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estatehub_backend/internal/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for setting data operations.
type Repository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM setting repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Get retrieves a setting by key.
func (r *gormRepository) Get(ctx context.Context, key string) (*Setting, error) {
	var setting Setting
	err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails(fmt.Sprintf("Setting %q not found.", key))
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert writes a setting, inserting or replacing the value.
func (r *gormRepository) Upsert(ctx context.Context, setting *Setting) error {
	setting.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error
	if err != nil {
		return fmt.Errorf("failed to upsert setting %q: %w", setting.Key, err)
	}
	return nil
}
